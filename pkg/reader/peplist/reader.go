// Package peplist provides a streaming reader for peptide list files used
// for batch fragment generation.
//
// Each non-empty line holds one peptide: the sequence, optionally followed
// by whitespace and a modification string in the Name@Pos;Name@Pos format
// accepted by core.ParseModString. Lines starting with '#' are comments.
package peplist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fragkey/fragkey/pkg/core"
)

// Reader provides streaming access to peptide list files
type Reader struct {
	scanner *bufio.Scanner
	modDB   *core.ModDatabase
	lineNum int
	current *core.Proteoform
	err     error
}

// NewReader creates a new peptide list reader
func NewReader(r io.Reader, modDB *core.ModDatabase) *Reader {
	if modDB == nil {
		modDB = core.DefaultModDatabase()
	}

	return &Reader{
		scanner: bufio.NewScanner(r),
		modDB:   modDB,
	}
}

// Next advances to the next peptide. Returns false when no more peptides or
// on error.
func (r *Reader) Next() bool {
	r.current = nil

	p, err := r.readPeptide()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.current = p
	return true
}

// Proteoform returns the current peptide
func (r *Reader) Proteoform() *core.Proteoform {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// readPeptide reads a single peptide line, skipping blanks and comments
func (r *Reader) readPeptide() (*core.Proteoform, error) {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: expected 'SEQUENCE [mods]', got %d fields", r.lineNum, len(fields))
		}

		p := &core.Proteoform{Sequence: fields[0]}
		if len(fields) == 2 {
			mods, err := r.modDB.ParseModString(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			p.Modifications = mods
		}

		return p, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
