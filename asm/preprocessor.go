package asm

import "bytes"

// Includer resolves the contents of a #include "path" target. The CLI
// wires this to the filesystem; tests supply an in-memory map instead.
type Includer interface {
	ReadInclude(path string) ([]byte, error)
}

// IncluderFunc adapts a plain function to Includer.
type IncluderFunc func(path string) ([]byte, error)

func (f IncluderFunc) ReadInclude(path string) ([]byte, error) { return f(path) }

// Preprocess expands #include directives one level deep and rejects
// #define, which is reserved but not implemented (matching the reference
// preprocessor). Any other #-prefixed word is an unrecognized command.
// Source outside of recognized commands passes through unchanged.
func Preprocess(src []byte, inc Includer) ([]byte, error) {
	p := NewParserStream(src)
	var out bytes.Buffer
	readStart := 0

	for {
		skipLineWhiteSpaceAndEmptyLines(p)
		if p.AtEnd() {
			break
		}

		posBeforeCommand := p.Pos()
		b, _ := p.Get()
		if b == '#' {
			cmd, err := parseName(p, "preprocessor command")
			if err != nil {
				return nil, err
			}

			out.Write(p.Slice(readStart, posBeforeCommand))

			switch cmd {
			case "include":
				if err := processInclude(p, inc, &out); err != nil {
					return nil, err
				}
			case "define":
				return nil, parseErr(p, "#define is not implemented")
			default:
				return nil, parseErr(p, "unrecognized preprocessor command %q", cmd)
			}

			readStart = p.Pos()
		}

		skipToLineEnd(p)
	}

	out.Write(p.Slice(readStart, -1))
	return out.Bytes(), nil
}

func processInclude(p *ParserStream, inc Includer, out *bytes.Buffer) error {
	skipSpaceOrTab(p)
	filename, err := parseString(p, '"')
	if err != nil {
		return err
	}
	if inc == nil {
		return parseErr(p, "#include %q: no includer configured", filename)
	}
	data, err := inc.ReadInclude(filename)
	if err != nil {
		return parseErr(p, "#include %q: %v", filename, err)
	}
	// One-level only: an included file's own #include directives are not
	// expanded.
	out.Write(data)
	return nil
}
