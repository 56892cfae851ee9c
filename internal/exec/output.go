package exec

import (
	"bytes"
	"io"
)

// PrefixWriter writes every line it receives to an underlying writer with a
// prefix. Partial lines wait for their newline or for Flush.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line.
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{prefix: prefix, writer: writer}
}

func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		if _, err := io.WriteString(p.writer, p.prefix+string(p.buffer[:i+1])); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes a pending partial line, terminated with a newline.
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := io.WriteString(p.writer, p.prefix+string(p.buffer)+"\n")
	p.buffer = p.buffer[:0]
	return err
}
