package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dvloznov/bank-cleaner/internal/schema"
	"github.com/dvloznov/bank-cleaner/internal/sheetsync"
)

// Resolver answers the questions a run cannot decide on its own: column
// roles that inference left unresolved, and overwrite-or-append decisions
// for sheets that already hold data.
// This interface enables mocking and testing of the interactive prompts.
type Resolver interface {
	// ResolveRole picks a column for an unresolved role. Empty string leaves
	// the role unassigned.
	ResolveRole(req schema.Request) (string, error)

	// ConfirmWrite decides what to do with a sheet that already holds rows.
	ConfirmWrite(sheetTitle string, existingRows int64) (sheetsync.WriteMode, error)
}

// TerminalResolver prompts on the terminal.
type TerminalResolver struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewTerminalResolver builds a resolver over the given streams.
func NewTerminalResolver(in io.Reader, out io.Writer) *TerminalResolver {
	return &TerminalResolver{In: in, Out: out, reader: bufio.NewReader(in)}
}

// ResolveRole lists the candidate columns and reads a pick. An empty answer
// leaves the role unassigned.
func (r *TerminalResolver) ResolveRole(req schema.Request) (string, error) {
	fmt.Fprintf(r.Out, "Could not detect the %s column.\n", req.Role)
	for i, col := range req.Candidates {
		fmt.Fprintf(r.Out, "  %d) %s\n", i+1, col)
	}
	fmt.Fprintf(r.Out, "Pick a column number (or press Enter to skip): ")

	line, err := r.readLine()
	if err != nil {
		return "", fmt.Errorf("ResolveRole: %w", err)
	}
	if line == "" {
		return "", nil
	}

	var n int
	if _, err := fmt.Sscanf(line, "%d", &n); err != nil || n < 1 || n > len(req.Candidates) {
		return "", fmt.Errorf("ResolveRole: %q is not a valid choice", line)
	}
	return req.Candidates[n-1], nil
}

// ConfirmWrite asks overwrite-or-append for one sheet.
func (r *TerminalResolver) ConfirmWrite(sheetTitle string, existingRows int64) (sheetsync.WriteMode, error) {
	fmt.Fprintf(r.Out, "Sheet %q already has %d rows. [o]verwrite or [a]ppend? ", sheetTitle, existingRows)

	line, err := r.readLine()
	if err != nil {
		return sheetsync.ModeOverwrite, fmt.Errorf("ConfirmWrite: %w", err)
	}
	switch strings.ToLower(line) {
	case "a", "append":
		return sheetsync.ModeAppend, nil
	case "", "o", "overwrite":
		return sheetsync.ModeOverwrite, nil
	default:
		return sheetsync.ModeOverwrite, fmt.Errorf("ConfirmWrite: %q is not a valid choice", line)
	}
}

func (r *TerminalResolver) readLine() (string, error) {
	if r.reader == nil {
		r.reader = bufio.NewReader(r.In)
	}
	line, err := r.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StaticResolver answers from fixed values; used by tests and by
// non-interactive runs where prompting is impossible.
type StaticResolver struct {
	// Roles maps role to the column to assign; missing entries skip the role.
	Roles map[schema.Role]string

	// Mode answers every write confirmation.
	Mode sheetsync.WriteMode
}

func (s *StaticResolver) ResolveRole(req schema.Request) (string, error) {
	return s.Roles[req.Role], nil
}

func (s *StaticResolver) ConfirmWrite(string, int64) (sheetsync.WriteMode, error) {
	return s.Mode, nil
}
