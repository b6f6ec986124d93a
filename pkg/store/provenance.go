package store

import (
	"fmt"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// provenanceRecord is the flattened, comparable form of a Provenance.
type provenanceRecord struct {
	kind       string
	path       string
	repoPath   string
	commitHash string
}

func toProvenanceRecord(prov types.Provenance) provenanceRecord {
	rec := provenanceRecord{kind: prov.Kind(), path: prov.Path()}
	if g, ok := prov.(types.GitProvenance); ok {
		rec.repoPath = g.RepoPath
		if g.Commit != nil {
			rec.commitHash = g.Commit.CommitID
		}
	}
	return rec
}

func (r provenanceRecord) provenance() (types.Provenance, error) {
	switch r.kind {
	case "file":
		return types.FileProvenance{FilePath: r.path}, nil
	case "git":
		g := types.GitProvenance{RepoPath: r.repoPath, BlobPath: r.path}
		if r.commitHash != "" {
			g.Commit = &types.CommitMetadata{CommitID: r.commitHash}
		}
		return g, nil
	case "source":
		return types.SourceProvenance{Source: r.path}, nil
	default:
		return nil, fmt.Errorf("unknown provenance type: %s", r.kind)
	}
}
