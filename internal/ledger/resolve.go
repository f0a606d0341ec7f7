package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/tally/internal/model"
)

const minPrefix = 4

// Resolve maps a user-typed reference to a raw index. It accepts a full
// ID, a unique ID prefix of at least four characters, or "#n" for the n-th
// stored record counting from 1.
func Resolve(txs []model.Transaction, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "#") {
		n, err := strconv.Atoi(ref[1:])
		if err != nil {
			return -1, fmt.Errorf("parsing %q: %w", ref, ErrNotFound)
		}
		if n < 1 || n > len(txs) {
			return -1, fmt.Errorf("%s of %d: %w", ref, len(txs), ErrIndexOutOfRange)
		}
		return n - 1, nil
	}

	if idx := IndexOf(txs, ref); idx >= 0 {
		return idx, nil
	}
	if len(ref) < minPrefix {
		return -1, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}

	found := -1
	for i, t := range txs {
		if strings.HasPrefix(t.ID, ref) {
			if found >= 0 {
				return -1, fmt.Errorf("%q: %w", ref, ErrAmbiguousRef)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("%q: %w", ref, ErrNotFound)
	}
	return found, nil
}
