package arena

import (
	"errors"
	"io"
	"os"

	"fortio.org/safecast"
)

func openFile(path string, flag int, mode string) *os.File {
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		Die("Could not open for %s: %s => %v", mode, path, err)
	}
	return f
}

// ReadFile reads the whole file at path into a.
func ReadFile(a *Arena, path string) Str {
	f := openFile(path, os.O_RDONLY, "read")
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		Die("Could not stat: %s => %v", path, err)
	}
	size, err := safecast.Conv[int](info.Size())
	if err != nil {
		Die("File too large: %s => %v", path, err)
	}

	var out Str
	out.Resize(a, size)
	n, err := io.ReadFull(f, out.data)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		Die("Could not read: %s => %v", path, err)
	}
	out.Resize(a, n)
	return out
}

// WriteFile replaces the file at path with contents.
func WriteFile(path string, contents []byte) {
	writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, "write", contents)
}

// AppendFile appends contents to the file at path, creating it if needed.
func AppendFile(path string, contents []byte) {
	writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, "append", contents)
}

func writeFile(path string, flag int, mode string, contents []byte) {
	f := openFile(path, flag, mode)
	if _, err := f.Write(contents); err != nil {
		f.Close()
		Die("Could not %s: %s => %v", mode, path, err)
	}
	if err := f.Close(); err != nil {
		Die("Could not %s: %s => %v", mode, path, err)
	}
}

// PathJoin joins parts with the OS path separator, without cleaning.
func PathJoin(a *Arena, parts ...string) Str {
	var out Str
	for i, p := range parts {
		if i > 0 {
			out.Push(a, os.PathSeparator)
		}
		out.AppendString(a, p)
	}
	return out
}
