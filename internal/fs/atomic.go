package fs

import (
	"os"
	"path/filepath"
)

// TempPattern is the CreateTemp pattern used for atomic writes.
const TempPattern = ".vulegen-tmp-*"

// WriteFileAtomic writes data to path through a temp file in the same
// directory followed by a rename, so readers never observe a partial file.
// On failure the previous file (if any) is untouched and the temp file is removed.
// The parent directory must exist.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) (err error) {
	tmpPath, w, err := fsys.CreateTemp(filepath.Dir(path), TempPattern)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			fsys.Remove(tmpPath)
		}
	}()

	if _, err = w.Write(data); err != nil {
		w.Close()
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}
	if err = fsys.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return fsys.Rename(tmpPath, path)
}

// ReadFileIfExists returns the file contents and true, or nil and false when
// the file does not exist. Other read errors are returned as-is.
func ReadFileIfExists(fsys FS, path string) ([]byte, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
