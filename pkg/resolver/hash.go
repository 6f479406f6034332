// Copyright 2024 The Mason Authors.

package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// hashTree hashes every file under root on fsys, in sorted path order, as
// path‖0x00‖bytes (spec.md §4.3's Path algorithm), where path is the
// file's path on fsys and so begins with root when root is non-empty.
// It returns the first 40 hex characters of the sha256 digest.
func hashTree(fsys billy.Filesystem, root string) (string, error) {
	var rels []string
	if err := walkFiles(fsys, root, func(p string) { rels = append(rels, p) }); err != nil {
		return "", err
	}
	sort.Strings(rels)

	h := sha256.New()
	for _, rel := range rels {
		b, err := util.ReadFile(fsys, rel)
		if err != nil {
			return "", err
		}
		h.Write([]byte(rel))
		h.Write([]byte{0x00})
		h.Write(b)
	}

	return hex.EncodeToString(h.Sum(nil))[:40], nil
}

func walkFiles(fsys billy.Filesystem, dir string, visit func(string)) error {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		full := dir + "/" + info.Name()
		if dir == "" {
			full = info.Name()
		}
		if info.IsDir() {
			if err := walkFiles(fsys, full, visit); err != nil {
				return err
			}
			continue
		}
		visit(full)
	}
	return nil
}

// copyTree copies every regular file from src (rooted at srcRoot) into
// dst (rooted at dstRoot), creating parent directories as needed.
func copyTree(src billy.Filesystem, srcRoot string, dst billy.Filesystem, dstRoot string) error {
	var rels []string
	if err := walkFiles(src, srcRoot, func(p string) { rels = append(rels, p) }); err != nil {
		return err
	}

	for _, rel := range rels {
		b, err := util.ReadFile(src, rel)
		if err != nil {
			return err
		}
		target := rel
		if srcRoot != "" {
			target = dstRoot + "/" + rel[len(srcRoot)+1:]
		} else {
			target = dstRoot + "/" + rel
		}
		if err := util.WriteFile(dst, target, b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
