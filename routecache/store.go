package routecache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/geom"
)

// Sentinel errors returned by the store.
var (
	// ErrEmptyID indicates a Load or Save with an empty component id.
	ErrEmptyID = errors.New("routecache: component id must be non-empty")

	// ErrNilSnapshot indicates a Save with a nil snapshot.
	ErrNilSnapshot = errors.New("routecache: snapshot must be non-nil")
)

// Route kinds recorded in a snapshot. A cached record replays only for
// a route registered with the same kind.
const (
	KindAuto        = "autoroute"
	KindPolychannel = "polychannel"
	KindBezier      = "bezier"
	KindFractional  = "fractional"
)

// ext is the snapshot file suffix.
const ext = ".route"

// Record is one resolved route: the endpoint boxes it connected and the
// materialized cross-section chain. A record replays only while both
// endpoint boxes still match the live ports and the chain's swept
// volume is still free.
type Record struct {
	Kind   string                 `msgpack:"kind"`
	Input  geom.AABB              `msgpack:"input"`
	Output geom.AABB              `msgpack:"output"`
	Path   []channel.CrossSection `msgpack:"path"`
}

// Snapshot is the per-component cache unit. GeometryHash fingerprints
// the component's structural geometry; a mismatch on load invalidates
// every record at once. Keepouts preserves the obstacle boxes that were
// live when the snapshot was taken, keyed by owner.
type Snapshot struct {
	GeometryHash string               `msgpack:"geometry_hash"`
	Keepouts     map[string]geom.AABB `msgpack:"keepouts"`
	Records      map[string]Record    `msgpack:"records"`
}

// NewSnapshot returns an empty snapshot for the given geometry hash.
func NewSnapshot(hash string) *Snapshot {
	return &Snapshot{
		GeometryHash: hash,
		Keepouts:     make(map[string]geom.AABB),
		Records:      make(map[string]Record),
	}
}

// Store reads and writes snapshots under a single directory.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) the snapshot directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("routecache: create %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string { return s.dir }

// Load returns the snapshot for the component id, or (nil, nil) when no
// usable snapshot exists. Decode failures are treated as a missing
// snapshot: the cache is advisory and is rebuilt on the next Save.
func (s *Store) Load(id string) (*Snapshot, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	raw, err := os.ReadFile(s.file(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("routecache: read %s: %w", id, err)
	}

	var snap Snapshot
	if err := msgpack.Unmarshal(raw, &snap); err != nil {
		return nil, nil // corrupt snapshot, recompute
	}
	if snap.Keepouts == nil {
		snap.Keepouts = make(map[string]geom.AABB)
	}
	if snap.Records == nil {
		snap.Records = make(map[string]Record)
	}

	return &snap, nil
}

// Save writes the snapshot for the component id, replacing any previous
// one. The write goes through a temp file and a rename so a crash never
// leaves a truncated snapshot behind.
func (s *Store) Save(id string, snap *Snapshot) error {
	if id == "" {
		return ErrEmptyID
	}
	if snap == nil {
		return ErrNilSnapshot
	}
	raw, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("routecache: encode %s: %w", id, err)
	}

	tmp := s.file(id) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("routecache: write %s: %w", id, err)
	}
	if err := os.Rename(tmp, s.file(id)); err != nil {
		return fmt.Errorf("routecache: commit %s: %w", id, err)
	}

	return nil
}

// Remove deletes the snapshot for the component id, if present.
func (s *Store) Remove(id string) error {
	if id == "" {
		return ErrEmptyID
	}
	err := os.Remove(s.file(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

func (s *Store) file(id string) string {
	return filepath.Join(s.dir, id+ext)
}
