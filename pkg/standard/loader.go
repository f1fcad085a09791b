package standard

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/askiada/go-fasttrack/pkg/pset"
)

//go:embed data/*.yaml
var embedded embed.FS

const maxConcurrentLoads = 4

type templateDocument struct {
	Step    string    `yaml:"step"`
	Objects yaml.Node `yaml:"objects"`
}

// Default returns the embedded standard catalog.
func Default() (*Catalog, error) {
	return LoadFS(context.Background(), embedded, "data")
}

// Parse decodes one template document.
func Parse(data []byte) (*Template, error) {
	var doc templateDocument
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode template")
	}
	if doc.Step == "" {
		return nil, ErrStepMustBeSet
	}
	if doc.Objects.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(pset.ErrInvalidDocument, "%s: objects must be a mapping", doc.Step)
	}

	objects := make([]pset.Named, 0, len(doc.Objects.Content)/2)
	for i := 0; i+1 < len(doc.Objects.Content); i += 2 {
		label := doc.Objects.Content[i].Value
		cfg := &pset.PSet{}
		err := doc.Objects.Content[i+1].Decode(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: unable to decode %s", doc.Step, label)
		}
		objects = append(objects, pset.Named{Label: label, Config: cfg})
	}

	return NewTemplate(doc.Step, objects...)
}

// LoadFile reads one template document from disk.
func LoadFile(filename string) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", filename)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	return t, nil
}

// LoadDir reads every *.yaml template of a directory into a catalog.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	return LoadFS(ctx, os.DirFS(dir), ".")
}

// LoadFS parses every *.yaml file of dir concurrently. Templates enter the
// catalog in file name order whatever the parse order was.
func LoadFS(ctx context.Context, fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to list %s", dir)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		files = append(files, path.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	templates := make([]*Template, len(files))
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(maxConcurrentLoads)
	for i, file := range files {
		i, file := i, file
		errGrp.Go(func() error {
			if err := dCtx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, file)
			if err != nil {
				return errors.Wrapf(err, "unable to read %s", file)
			}
			t, err := Parse(data)
			if err != nil {
				return errors.Wrap(err, file)
			}
			templates[i] = t

			return nil
		})
	}
	err = errGrp.Wait()
	if err != nil {
		return nil, err
	}

	return NewCatalog(templates...)
}
