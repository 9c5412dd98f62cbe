package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/windowstash/internal/model"
)

// AddressFormatter outputs just the window addresses, one per line.
// Useful for piping to other commands (e.g. xargs windowstash restore).
type AddressFormatter struct{}

// NewAddressFormatter creates a new address formatter.
func NewAddressFormatter() *AddressFormatter {
	return &AddressFormatter{}
}

// Format writes window addresses to the writer, one per line.
func (f *AddressFormatter) Format(w io.Writer, windows []model.MinimizedWindow) error {
	for _, win := range windows {
		if _, err := fmt.Fprintln(w, win.Address); err != nil {
			return err
		}
	}
	return nil
}
