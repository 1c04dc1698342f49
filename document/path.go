package document

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"
)

// SearchPath composes the directories searched by [Locate]: dirs first, in
// order, then the entries of list, a PATH-like string separated by
// [os.PathListSeparator]. Duplicates are removed.
func SearchPath(list string, dirs ...string) []string {
	return filepath.SplitList(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String())
}

// Locate returns the path of the document name. Absolute names and names
// that exist relative to the working directory are returned as given;
// otherwise each directory of search is tried in order.
func Locate(name string, search []string) (string, error) {
	if filepath.IsAbs(name) || isFile(name) {
		return name, nil
	}

	for _, dir := range search {
		if dir == "" {
			continue
		}

		if p := filepath.Join(dir, name); isFile(p) {
			return p, nil
		}
	}

	return "", ErrDocumentNotFound.With(
		slog.String("name", name),
		slog.Any("search", search))
}

// Open locates name on search and loads it. The name "-" reads standard
// input.
func Open(ctx context.Context, name string, search []string) (*Document, error) {
	if name == "-" {
		return LoadReader(ctx, os.Stdin)
	}

	path, err := Locate(name, search)
	if err != nil {
		return nil, err
	}

	return Load(ctx, path)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
