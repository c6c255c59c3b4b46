package record

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// FileWriter buffers rendered records and writes them into a file. The file
// is flushed and closed at exit if Close is never called.
type FileWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer

	pending    []fmt.Stringer
	bufferSize int
	closed     bool
}

// NewFileWriter creates a FileWriter for path.
func NewFileWriter(path string) *FileWriter {
	return &FileWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file the writer writes into.
func (w *FileWriter) Path() string {
	return w.path
}

// Init creates the file. An existing file is overwritten.
func (w *FileWriter) Init() error {
	file, err := os.Create(w.path)
	if err != nil {
		return err
	}

	w.file = file
	w.buf = bufio.NewWriter(file)

	atexit.Register(func() {
		if err := w.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "closing %s: %v\n", w.path, err)
		}
	})

	return nil
}

// Write queues a record.
func (w *FileWriter) Write(r fmt.Stringer) error {
	w.pending = append(w.pending, r)
	if len(w.pending) >= w.bufferSize {
		return w.Flush()
	}

	return nil
}

// WriteAll queues every entry of the execution log.
func (w *FileWriter) WriteAll(l ExecutionLog) error {
	for _, e := range l {
		if err := w.Write(e); err != nil {
			return err
		}
	}

	return nil
}

// WriteBlocks queues every block of the status log.
func (w *FileWriter) WriteBlocks(l StatusLog) error {
	for _, b := range l {
		if err := w.Write(b); err != nil {
			return err
		}
	}

	return nil
}

// Flush writes the queued records into the file.
func (w *FileWriter) Flush() error {
	if w.file == nil {
		return fmt.Errorf("writer for %s is not initialized", w.path)
	}

	for _, r := range w.pending {
		s := r.String()
		if _, isEntry := r.(Entry); isEntry {
			s += "\n"
		}

		if _, err := w.buf.WriteString(s); err != nil {
			return err
		}
	}

	w.pending = nil

	return w.buf.Flush()
}

// Close flushes and closes the file. Closing twice is a no-op.
func (w *FileWriter) Close() error {
	if w.closed || w.file == nil {
		return nil
	}

	w.closed = true

	if err := w.Flush(); err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}
