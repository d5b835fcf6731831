package utils

import (
	"io/fs"
	"path"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// AssetVersions hashes every file in fsys and keys the digests by the URL the
// file is served under (prefix + relative path).
func AssetVersions(fsys fs.FS, prefix string) (map[string]string, error) {
	versions := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		versions[path.Join(prefix, p)] = strconv.FormatUint(xxhash.Sum64(data), 36)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return versions, nil
}
