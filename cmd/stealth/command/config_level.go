package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-stealth/internal/level"
	"github.com/pixil98/go-stealth/internal/storage"
)

type LevelConfig struct {
	Path string `json:"path"`
	Id   string `json:"id"`
}

func (c *LevelConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("level: path is required"))
	} else if _, err := os.Stat(c.Path); err != nil {
		el.Add(fmt.Errorf("level: invalid path %q: %w", c.Path, err))
	}
	if c.Id == "" {
		el.Add(fmt.Errorf("level: id is required"))
	}

	return el.Err()
}

func (c *LevelConfig) LoadLevel() (*level.Level, error) {
	store, err := storage.NewFileStore[*level.Level](c.Path)
	if err != nil {
		return nil, fmt.Errorf("creating level store: %w", err)
	}
	lvl := store.Get(c.Id)
	if lvl == nil {
		return nil, fmt.Errorf("level %q not found in %s (have %v)", c.Id, c.Path, store.Ids())
	}
	return lvl, nil
}
