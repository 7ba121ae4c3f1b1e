package logic

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/idelchi/sectorc/internal/keys"
)

// RunKeygen writes a new hex master key.
func RunKeygen(w io.Writer) error {
	key, err := keys.Generate()
	if err != nil {
		return err
	}

	defer keys.Wipe(key)

	if _, err := fmt.Fprintln(w, hex.EncodeToString(key)); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return nil
}
