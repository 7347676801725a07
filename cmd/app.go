package cmd

import (
	"fmt"

	"ngo-cms/pkg/config"
	"ngo-cms/pkg/schema"
	"ngo-cms/pkg/services"
	"ngo-cms/pkg/store"
)

// app holds the stores and services shared by every command.
type app struct {
	db          *store.DB
	registry    *schema.Registry
	options     *store.OptionStore
	meta        *services.Meta
	attachments *store.AttachmentStore
	index       *services.Index
}

func openApp() (*app, error) {
	db, err := store.Open(store.Options{Path: config.DataDir})
	if err != nil {
		return nil, fmt.Errorf("open data dir %s: %w", config.DataDir, err)
	}
	registry := schema.Default()
	options := store.NewOptionStore(db)
	return &app{
		db:          db,
		registry:    registry,
		options:     options,
		meta:        services.NewMeta(store.NewMetaStore(db)),
		attachments: store.NewAttachmentStore(db),
		index:       services.NewIndex(registry, options),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
