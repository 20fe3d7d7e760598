// Package localstore is the storage-server side of the system
// (SPEC_FULL.md section D): it implements spec.md section 4.1's
// Path.list, the naming.Command contract (create/delete/copy), and the
// client-to-storage Storage contract (size/read/write), all over plain
// os.* file operations against a local directory. It deliberately does
// not reach for a cloud-storage SDK: spec.md section 1 scopes a storage
// server's own disk behavior as "plain block reads/writes over a local
// directory".
package localstore

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/distfs/naming/errs"
	"github.com/distfs/naming/pathname"
)

// List enumerates every regular file reachable under root and returns
// each one's pathname.Path relative to root (spec.md section 4.1,
// Path.list). Used only by storage servers at registration, to build the
// path list they announce to Registration.Register.
func List(root string) ([]pathname.Path, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.NotFound{Msg: root}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &errs.BadArg{Msg: root + " is not a directory"}
	}

	var paths []pathname.Path
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		p, pathErr := pathname.New("/" + filepath.ToSlash(rel))
		if pathErr != nil {
			return pathErr
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
