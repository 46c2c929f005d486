package model

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/iocost-bot/pkg/domain/types"
)

// MergedResultFile is the name of the merge artifact inside a model
// directory. It is overwritten on every merge, never appended.
const MergedResultFile = "merged-results.json.gz"

// ResultFilePattern matches individual downloaded result files inside a
// model directory
const ResultFilePattern = "result-*.json.gz"

// DownloadedResult is a result file fetched from a trusted origin and stored
// locally under its content-hash name
type DownloadedResult struct {
	URL  string // Origin the bytes were fetched from
	Path string // Local path of the stored file
	Hash string // Hex MD5 digest of the raw bytes
	Size int64  // Size in bytes
}

// ResultFileName returns the deterministic local filename for a content
// hash. The name is a pure function of the content, so byte-identical
// downloads collide onto the same file and deduplicate themselves.
func ResultFileName(hash string) string {
	return fmt.Sprintf("result-%s.json.gz", hash)
}

// ModelName identifies the hardware configuration a benchmark result was
// produced on. It doubles as a directory name under the database root.
type ModelName string

// NormalizeModelName converts the free-text model description reported by
// resctl-bench into a filesystem-safe directory name by collapsing
// whitespace runs to single underscores.
func NormalizeModelName(description string) (ModelName, error) {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return "", goerr.Wrap(types.ErrInvalidModelName, "model description is empty")
	}

	name := strings.Join(fields, "_")
	if strings.ContainsAny(name, `/\`) {
		return "", goerr.Wrap(types.ErrInvalidModelName, "model description contains a path separator",
			goerr.V("description", description))
	}

	return ModelName(name), nil
}
