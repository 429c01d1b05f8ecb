package cassandracontainer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/amidgo/bootcontainers"
)

// Script is a CQL schema script applied statement by statement.
type Script interface {
	Statements() ([]string, error)
}

type ScriptString string

func (s ScriptString) Statements() ([]string, error) {
	return SplitStatements(string(s)), nil
}

type fileScript struct {
	fsys fs.FS
	name string
}

func ScriptFile(fsys fs.FS, name string) Script {
	return fileScript{
		fsys: fsys,
		name: name,
	}
}

// ScriptPath reads the script from the local file system.
func ScriptPath(path string) Script {
	return ScriptFile(os.DirFS("."), path)
}

func (f fileScript) Statements() ([]string, error) {
	content, err := fs.ReadFile(f.fsys, f.name)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, containers.NewResourceNotFoundError(fmt.Sprintf("cql script %s", f.name), err)
	case err != nil:
		return nil, containers.NewResourceAccessError(fmt.Sprintf("read cql script %s", f.name), err)
	}

	return SplitStatements(string(content)), nil
}

type scanState uint8

const (
	scanCode scanState = iota
	scanSingleQuote
	scanDoubleQuote
	scanDollarQuote
	scanLineComment
	scanBlockComment
)

// SplitStatements splits a CQL script on ';' terminators. Comments are dropped,
// terminators inside quoted strings, quoted identifiers and $$ literals are kept.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
		state      = scanCode
	)

	flush := func() {
		statement := strings.TrimSpace(current.String())
		if statement != "" {
			statements = append(statements, statement)
		}

		current.Reset()
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		next := byte(0)

		if i+1 < len(script) {
			next = script[i+1]
		}

		switch state {
		case scanCode:
			switch {
			case c == ';':
				flush()
			case c == '-' && next == '-', c == '/' && next == '/':
				state = scanLineComment
				i++
			case c == '/' && next == '*':
				state = scanBlockComment
				i++
			case c == '$' && next == '$':
				state = scanDollarQuote
				current.WriteString("$$")
				i++
			case c == '\'':
				state = scanSingleQuote
				current.WriteByte(c)
			case c == '"':
				state = scanDoubleQuote
				current.WriteByte(c)
			default:
				current.WriteByte(c)
			}
		case scanSingleQuote, scanDoubleQuote:
			current.WriteByte(c)

			quote := byte('\'')
			if state == scanDoubleQuote {
				quote = '"'
			}

			if c != quote {
				continue
			}

			if next == quote {
				current.WriteByte(next)
				i++

				continue
			}

			state = scanCode
		case scanDollarQuote:
			if c == '$' && next == '$' {
				current.WriteString("$$")
				state = scanCode
				i++

				continue
			}

			current.WriteByte(c)
		case scanLineComment:
			if c == '\n' {
				current.WriteByte(c)
				state = scanCode
			}
		case scanBlockComment:
			if c == '*' && next == '/' {
				current.WriteByte(' ')
				state = scanCode
				i++
			}
		}
	}

	flush()

	return statements
}
