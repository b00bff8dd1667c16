// Package sqlite provides SQLite database writing for theoretical fragment
// libraries
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fragkey/fragkey/pkg/core"
	_ "github.com/mattn/go-sqlite3"
)

// Date format for HeaderTable (ISO 8601)
const headerDateFormat = "2006-01-02"

// Writer handles writing peptides and their theoretical fragments to SQLite
// database files
type Writer struct {
	db           *sql.DB
	outputPath   string
	peptideStmt  *sql.Stmt
	fragmentStmt *sql.Stmt
	peptideID    int
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		peptideID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId INTEGER PRIMARY KEY,
		Sequence TEXT NOT NULL,
		Mods TEXT,
		Name TEXT
	);

	CREATE TABLE IF NOT EXISTS FragmentTable (
		FragmentId INTEGER PRIMARY KEY AUTOINCREMENT,
		PeptideId INTEGER REFERENCES PeptideTable(PeptideId),
		Annotation TEXT NOT NULL,
		IonType TEXT NOT NULL,
		NeutralLoss TEXT,
		Charge INTEGER NOT NULL,
		MZ DOUBLE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS FragmentMZIndex ON FragmentTable(MZ);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		CreationDate TEXT,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.peptideStmt, err = w.db.Prepare(`
		INSERT INTO PeptideTable (PeptideId, Sequence, Mods, Name)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare peptide statement: %w", err)
	}

	w.fragmentStmt, err = w.db.Prepare(`
		INSERT INTO FragmentTable (PeptideId, Annotation, IonType, NeutralLoss, Charge, MZ)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare fragment statement: %w", err)
	}

	return nil
}

// WritePeptide writes one peptide and its fragment list to the database.
// Fragments are inserted in one transaction per peptide.
func (w *Writer) WritePeptide(p *core.Proteoform, fragments []core.Fragment) error {
	_, err := w.peptideStmt.Exec(
		w.peptideID,
		p.Sequence,
		p.ModString(),
		p.Name(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert peptide: %w", err)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt := tx.Stmt(w.fragmentStmt)
	for _, frag := range fragments {
		_, err := stmt.Exec(
			w.peptideID,
			frag.Annotation.String(),
			frag.Annotation.IonType(),
			frag.Annotation.NeutralLoss(),
			frag.Annotation.Charge(),
			frag.MZ,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert fragment %s: %w", frag.Annotation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fragments: %w", err)
	}

	w.peptideID++
	return nil
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize() error {
	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (version, CreationDate, Description)
		VALUES (?, ?, ?)
	`, 1, time.Now().Format(headerDateFormat), "")
	if err != nil {
		return fmt.Errorf("failed to insert header: %w", err)
	}

	if w.peptideStmt != nil {
		w.peptideStmt.Close()
	}
	if w.fragmentStmt != nil {
		w.fragmentStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
