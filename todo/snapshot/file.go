package snapshot

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirPermission Used when creating missing parent directories
	DirPermission = fs.FileMode(0755)

	// FilePermission Used for the snapshot file
	FilePermission = fs.FileMode(0644)
)

// File A local file snapshot. Saves write a temporary file next to the destination
// and rename it over the destination
type File struct {
	path      string
	dir       string
	writeMode WriteMode
}

// NewFile Initialize a usable [File] snapshot
func NewFile(path string, writeMode WriteMode) (*File, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if writeMode > Buffered {
		writeMode = Sync
	}

	return &File{
		path:      absPath,
		dir:       filepath.Dir(absPath),
		writeMode: writeMode,
	}, nil
}

// Path The absolute path of the snapshot file
func (f *File) Path() string {
	return f.path
}

// Load Read the whole snapshot file
func (f *File) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(f.path)
}

// Save Atomically replace the snapshot file with data
func (f *File) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(f.dir, DirPermission); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(f.dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tempFile.Name())
		}
	}()

	if err := f.writeTemp(tempFile, data); err != nil {
		return err
	}

	if err := os.Rename(tempFile.Name(), f.path); err != nil {
		return err
	}
	renamed = true

	if f.writeMode == Sync {
		return f.syncDir()
	}

	return nil
}

// writeTemp Fill and close the temporary file, it is always closed on return
func (f *File) writeTemp(tempFile *os.File, data []byte) error {
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return err
	}

	if err := tempFile.Chmod(FilePermission); err != nil {
		_ = tempFile.Close()
		return err
	}

	if f.writeMode == Sync {
		if err := tempFile.Sync(); err != nil {
			_ = tempFile.Close()
			return err
		}
	}

	return tempFile.Close()
}

func (f *File) syncDir() error {
	dir, err := os.Open(f.dir)
	if err != nil {
		return err
	}
	defer dir.Close()

	// Some filesystems do not support syncing directories, the rename already happened
	_ = dir.Sync()

	return nil
}
