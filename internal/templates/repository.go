// Package templates locates, caches, and aligns against base-pair template
// structures. A template is a two-residue PDB file keyed by (sequence, LW
// class); candidate pairs are Kabsch-aligned onto templates and ranked by
// RMSD over the shared ring atoms.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/parser"
)

// ErrTemplateNotFound is returned when no template file exists for the
// requested (sequence, LW class).
var ErrTemplateNotFound = errors.New("templates: template not found")

// LWClasses is the closed 12-member Leontis-Westhof vocabulary.
var LWClasses = []string{
	"cWW", "tWW", "cWH", "tWH", "cWS", "tWS",
	"cHH", "tHH", "cHS", "tHS", "cSS", "tSS",
}

// Template holds the two residues of a loaded template as coordinate maps.
type Template struct {
	Path string
	Res1 map[string]r3.Vec
	Res2 map[string]r3.Vec
}

// Repository discovers template files in an idealized directory (organized
// by LW-class subdirectories) and an exemplar directory (flat naming), and
// caches parsed templates by path. The cache is guarded so repositories can
// be shared across per-structure workers.
type Repository struct {
	idealizedDir string
	exemplarDir  string

	mu    sync.Mutex
	cache map[string]*Template
}

// NewRepository returns a repository over the two template directories.
func NewRepository(idealizedDir, exemplarDir string) *Repository {
	return &Repository{
		idealizedDir: idealizedDir,
		exemplarDir:  exemplarDir,
		cache:        make(map[string]*Template),
	}
}

// Find locates and loads the template for (sequence, lwClass), consulting
// the idealized directory first and then the exemplar naming conventions.
func (r *Repository) Find(sequence, lwClass string) (*Template, error) {
	if len(sequence) != 2 {
		return nil, fmt.Errorf("templates: bad sequence %q", sequence)
	}
	path, ok := r.findPath(sequence, lwClass)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrTemplateNotFound, sequence, lwClass)
	}
	return r.load(path)
}

func (r *Repository) findPath(sequence, lwClass string) (string, bool) {
	// Idealized layout: one subdirectory per LW class.
	idealized := []string{
		fmt.Sprintf("%s.pdb", sequence),
		fmt.Sprintf("%s_%s.pdb", sequence[:1], strings.ToLower(sequence[1:])),
	}
	for _, name := range idealized {
		path := filepath.Join(r.idealizedDir, lwClass, name)
		if fileExists(path) {
			return path, true
		}
	}

	// Exemplar layout: flat files with several naming conventions.
	exemplar := []string{
		fmt.Sprintf("%s-%s-%s.pdb", sequence[:1], sequence[1:], lwClass),
		fmt.Sprintf("%splus%s-%s.pdb", sequence[:1], sequence[1:], lwClass),
		fmt.Sprintf("%s-%s-%s.pdb", strings.ToLower(sequence[:1]), sequence[1:], lwClass),
		fmt.Sprintf("%s-%s.pdb", sequence, lwClass),
	}
	for _, name := range exemplar {
		path := filepath.Join(r.exemplarDir, name)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func (r *Repository) load(path string) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[path]; ok {
		return t, nil
	}

	res1, res2, err := parser.ParseTemplatePDB(path)
	if err != nil {
		return nil, err
	}
	t := &Template{Path: path, Res1: res1, Res2: res2}
	r.cache[path] = t
	return t, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
