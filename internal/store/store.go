// Package store manages the append-only artifact collections the pipeline
// stages hand state through: raw postings, scored postings and letters.
//
// Artifacts are write-once. An artifact lands atomically (temp name, then
// rename), so a partially written batch is never visible to Latest. The
// "latest" artifact of a kind is resolved by a monotonically increasing
// sequence number embedded in the artifact name; the creation timestamp is
// only a tie-break, never the primary key, so clock skew cannot flip the
// pick.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Kind identifies one artifact collection family.
type Kind string

const (
	Raw     Kind = "raw"
	Scored  Kind = "scored"
	Letters Kind = "letters"
)

const (
	stampLayout = "20060102_150405"
	tmpPrefix   = ".tmp-"
)

// ErrNotFound is returned by Latest when no artifact of the requested kind
// exists yet. Callers treat it as "upstream stage has not run", not as an
// error to retry.
var ErrNotFound = errors.New("no artifact found")

// Artifact identifies one persisted collection.
type Artifact struct {
	Kind  Kind
	Seq   int
	Stamp string
	Name  string
}

// Document is one named record inside a document artifact (a letter file).
type Document struct {
	Name string
	Body []byte
}

// Store persists artifacts under a root directory, one subdirectory per
// kind.
type Store struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

func New(root string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{root: root, logger: logger, now: time.Now}

	for _, kind := range []Kind{Raw, Scored, Letters} {
		if err := os.MkdirAll(s.dir(kind), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", kind, err)
		}
	}

	return s, nil
}

// Append writes records as a new JSON artifact of the given kind and returns
// its identity. Existing artifacts are never overwritten.
func (s *Store) Append(kind Kind, records any) (Artifact, error) {
	artifact, err := s.nextArtifact(kind)
	if err != nil {
		return Artifact{}, err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encode %s artifact: %w", kind, err)
	}

	dir := s.dir(kind)
	tmp := filepath.Join(dir, tmpPrefix+artifact.Name)
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("write %s artifact: %w", kind, err)
	}

	final := filepath.Join(dir, artifact.Name)
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return Artifact{}, fmt.Errorf("publish %s artifact: %w", kind, err)
	}

	s.logger.Debug("appended artifact",
		zap.String("kind", string(kind)),
		zap.String("name", artifact.Name),
		zap.Int("seq", artifact.Seq),
	)

	return artifact, nil
}

// AppendDocuments writes a batch of named documents as a new directory
// artifact. The whole batch becomes visible atomically.
func (s *Store) AppendDocuments(kind Kind, docs []Document) (Artifact, error) {
	artifact, err := s.nextArtifact(kind)
	if err != nil {
		return Artifact{}, err
	}
	// document artifacts are directories, no extension
	artifact.Name = strings.TrimSuffix(artifact.Name, ".json")

	dir := s.dir(kind)
	tmp, err := os.MkdirTemp(dir, tmpPrefix)
	if err != nil {
		return Artifact{}, fmt.Errorf("create %s artifact dir: %w", kind, err)
	}

	for _, doc := range docs {
		if err := os.WriteFile(filepath.Join(tmp, doc.Name), doc.Body, 0o644); err != nil {
			os.RemoveAll(tmp)
			return Artifact{}, fmt.Errorf("write document %s: %w", doc.Name, err)
		}
	}

	final := filepath.Join(dir, artifact.Name)
	if err := os.Rename(tmp, final); err != nil {
		os.RemoveAll(tmp)
		return Artifact{}, fmt.Errorf("publish %s artifact: %w", kind, err)
	}

	s.logger.Debug("appended document artifact",
		zap.String("kind", string(kind)),
		zap.String("name", artifact.Name),
		zap.Int("documents", len(docs)),
	)

	return artifact, nil
}

// Latest resolves the newest artifact of a kind by sequence number, with the
// creation stamp as tie-break. Returns ErrNotFound when the kind has no
// artifacts yet.
func (s *Store) Latest(kind Kind) (Artifact, error) {
	artifacts, err := s.list(kind)
	if err != nil {
		return Artifact{}, err
	}
	if len(artifacts) == 0 {
		return Artifact{}, fmt.Errorf("%s: %w", kind, ErrNotFound)
	}

	latest := artifacts[0]
	for _, artifact := range artifacts[1:] {
		if artifact.Seq > latest.Seq ||
			(artifact.Seq == latest.Seq && artifact.Stamp > latest.Stamp) {
			latest = artifact
		}
	}

	return latest, nil
}

// Read decodes a JSON artifact into target.
func (s *Store) Read(artifact Artifact, target any) error {
	data, err := os.ReadFile(s.Path(artifact))
	if err != nil {
		return fmt.Errorf("read %s artifact %s: %w", artifact.Kind, artifact.Name, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s artifact %s: %w", artifact.Kind, artifact.Name, err)
	}

	return nil
}

// Documents returns the documents of a directory artifact, sorted by name.
func (s *Store) Documents(artifact Artifact) ([]Document, error) {
	dir := s.Path(artifact)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s artifact %s: %w", artifact.Kind, artifact.Name, err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		body, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Name: entry.Name(), Body: body})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	return docs, nil
}

// Path returns the filesystem location of an artifact.
func (s *Store) Path(artifact Artifact) string {
	return filepath.Join(s.dir(artifact.Kind), artifact.Name)
}

func (s *Store) dir(kind Kind) string {
	switch kind {
	case Raw:
		return filepath.Join(s.root, "raw")
	case Scored:
		return filepath.Join(s.root, "processed")
	case Letters:
		return filepath.Join(s.root, "letters")
	default:
		return filepath.Join(s.root, string(kind))
	}
}

func (k Kind) prefix() string {
	switch k {
	case Raw:
		return "jobs"
	case Scored:
		return "matched"
	case Letters:
		return "letters"
	default:
		return string(k)
	}
}

func (s *Store) nextArtifact(kind Kind) (Artifact, error) {
	artifacts, err := s.list(kind)
	if err != nil {
		return Artifact{}, err
	}

	seq := 0
	for _, artifact := range artifacts {
		if artifact.Seq > seq {
			seq = artifact.Seq
		}
	}
	seq++

	stamp := s.now().UTC().Format(stampLayout)
	name := fmt.Sprintf("%s_%06d_%s.json", kind.prefix(), seq, stamp)

	return Artifact{Kind: kind, Seq: seq, Stamp: stamp, Name: name}, nil
}

func (s *Store) list(kind Kind) ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir(kind))
	if err != nil {
		return nil, fmt.Errorf("list %s artifacts: %w", kind, err)
	}

	artifacts := make([]Artifact, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, tmpPrefix) {
			continue
		}

		artifact, ok := parseName(kind, name)
		if !ok {
			continue
		}
		artifacts = append(artifacts, artifact)
	}

	return artifacts, nil
}

// parseName parses "<prefix>_<seq>_<stamp>[.json]" artifact names.
func parseName(kind Kind, name string) (Artifact, bool) {
	trimmed := strings.TrimSuffix(name, ".json")

	parts := strings.SplitN(trimmed, "_", 3)
	if len(parts) != 3 || parts[0] != kind.prefix() {
		return Artifact{}, false
	}

	seq, err := strconv.Atoi(parts[1])
	if err != nil || seq <= 0 {
		return Artifact{}, false
	}

	return Artifact{Kind: kind, Seq: seq, Stamp: parts[2], Name: name}, true
}
