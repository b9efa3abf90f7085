// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of absensi

package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/absensi/absensi/internal/dao"
)

// ErrEditorCancelled is returned when the editor exits with a failure or
// an errored document is saved unchanged.
var ErrEditorCancelled = errors.New("editor cancelled")

const idField = "id"

// Suspender hands the terminal over to a function.
type Suspender interface {
	Suspend(f func()) bool
}

// DirectSuspender runs functions right away, for callers without a
// terminal UI to suspend.
type DirectSuspender struct{}

// Suspend runs f.
func (DirectSuspender) Suspend(f func()) bool {
	f()
	return true
}

// EditSession represents an in-progress edit of a record.
type EditSession struct {
	ID       string
	Original map[string]any // backend state, without the id
	Editable map[string]any // document shown in the editor
	TempFile string
	ErrorMsg string // shown at the top of the file on retry
}

// NewEditSession returns a session editing the JSON form of a record.
func NewEditSession(o dao.Object) (*EditSession, error) {
	m, err := dao.ToMap(o)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", o.GetID(), err)
	}
	delete(m, idField)

	return &EditSession{
		ID:       o.GetID(),
		Original: m,
		Editable: m,
	}, nil
}

// StartEdit writes the document to a temp file, opens the editor with the
// terminal suspended and returns the edited document.
func (e *EditSession) StartEdit(s Suspender) (map[string]any, error) {
	tmpFile, err := os.CreateTemp("", "absensi-edit-*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	e.TempFile = tmpFile.Name()

	if err := e.write(tmpFile); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	exitCode, err := e.spawnEditor(s)
	if err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	if exitCode != 0 {
		return nil, ErrEditorCancelled
	}

	content, err := os.ReadFile(e.TempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	content = stripErrorComment(content)

	var modified map[string]any
	if err := json.Unmarshal(content, &modified); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	delete(modified, idField)

	return modified, nil
}

func (e *EditSession) spawnEditor(s Suspender) (int, error) {
	editor := getEditor()

	var exitCode int
	suspended := s.Suspend(func() {
		cmd := exec.Command(editor, e.TempFile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			} else {
				exitCode = 1
			}
		}
	})
	if !suspended {
		return 1, errors.New("failed to suspend application")
	}

	return exitCode, nil
}

func (e *EditSession) write(f *os.File) error {
	var buf bytes.Buffer
	if e.ErrorMsg != "" {
		buf.WriteString("// ERROR: " + e.ErrorMsg + "\n")
		buf.WriteString("// Fix the issue below and save, or save without changes to cancel.\n")
		buf.WriteString("// ---\n\n")
	}

	bb, err := json.MarshalIndent(e.Editable, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	buf.Write(bb)
	buf.WriteString("\n")

	_, err = f.Write(buf.Bytes())
	return err
}

// Cleanup removes the temporary file.
func (e *EditSession) Cleanup() {
	if e.TempFile != "" {
		_ = os.Remove(e.TempFile)
		e.TempFile = ""
	}
}

// SetError sets the error message shown on retry.
func (e *EditSession) SetError(msg string) {
	e.ErrorMsg = msg
}

// getEditor checks $EDITOR, then $VISUAL, then falls back to vim or nano.
func getEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if _, err := exec.LookPath("vim"); err == nil {
		return "vim"
	}
	return "nano"
}

// stripErrorComment removes the leading comment block.
func stripErrorComment(content []byte) []byte {
	lines := bytes.Split(content, []byte("\n"))
	startIdx := 0
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if bytes.HasPrefix(trimmed, []byte("//")) {
			startIdx = i + 1
			continue
		}
		break
	}

	if startIdx > 0 && startIdx < len(lines) {
		return bytes.Join(lines[startIdx:], []byte("\n"))
	}
	return content
}

// EditRecord opens the latest state of a record in $EDITOR and patches the
// backend with the changes. A rejected patch reopens the editor with the
// error on top until it succeeds or the user gives up.
func EditRecord[T dao.Object](ctx context.Context, s Suspender, res *dao.Resource[T], id string) (T, error) {
	var zero T

	cur, err := res.Get(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("failed to fetch record: %w", err)
	}
	session, err := NewEditSession(cur)
	if err != nil {
		return zero, err
	}
	defer session.Cleanup()

	for {
		modified, err := session.StartEdit(s)
		session.Cleanup()
		if err != nil {
			return zero, err
		}

		if session.ErrorMsg != "" {
			if _, err := dao.GeneratePatch(session.Editable, modified); errors.Is(err, dao.ErrNoChanges) {
				return zero, ErrEditorCancelled
			}
		}

		updated, err := res.Patch(ctx, session.ID, session.Original, modified)
		switch {
		case errors.Is(err, dao.ErrNoChanges):
			return zero, err
		case err != nil:
			session.SetError(err.Error())
			session.Editable = modified
			continue
		}

		return updated, nil
	}
}
