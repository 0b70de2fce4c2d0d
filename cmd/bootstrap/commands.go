package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"bookforge-api/internal/application/storage"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the documents table (postgres/sqlite backends)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, layer, cleanup, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		// InitializeStore 已执行建表，这里再跑一次保证幂等
		if layer.Backend.Migrator == nil {
			fmt.Println("Backend has no schema, nothing to migrate.")
			return nil
		}
		if err := layer.Backend.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Documents table is up to date.")
		return nil
	},
}

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a sample draft and the default design for a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, layer, cleanup, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if _, found, err := layer.Store.CurrentBook(ctx); err != nil {
			return err
		} else if found && !seedForce {
			fmt.Printf("Profile %s already has a draft, use --force to overwrite.\n", profileID)
			return nil
		}

		draft := sampleDraft()
		if err := layer.Store.SaveCurrentBook(ctx, draft); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}
		if err := layer.Store.SaveBookDesign(ctx, entity.DefaultBookDesign(draft)); err != nil {
			return fmt.Errorf("save design: %w", err)
		}
		if layer.Backend.Cached != nil {
			if _, err := layer.Backend.Cached.InvalidateNamespace(ctx, profileID); err != nil {
				logger.Warn(ctx, "failed to invalidate document cache", "error", err)
			}
		}

		fmt.Printf("Seeded profile %s with %d chapters.\n", profileID, len(draft.Chapters))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:       "show <key>",
	Short:     "Print a stored document envelope",
	Args:      cobra.ExactArgs(1),
	ValidArgs: storage.Keys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !slices.Contains(storage.Keys(), key) {
			return fmt.Errorf("unknown key %q, expected one of %v", key, storage.Keys())
		}

		ctx, layer, cleanup, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		raw, found, err := layer.Store.Raw(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("No %s document for profile %s.\n", key, profileID)
			return nil
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			// 非 JSON 内容原样输出
			fmt.Println(string(raw))
			return nil
		}
		fmt.Println(out.String())
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite an existing draft")
}

// sampleDraft 由示例章节组成的草稿，大纲与章节标题一致
func sampleDraft() *entity.BookDraft {
	chapters := entity.SampleChapters()
	outline := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		outline = append(outline, ch.Title)
	}
	return &entity.BookDraft{
		Idea:     "A practical guide to creative writing",
		Topic:    entity.DefaultBookTitle,
		Audience: "General audience",
		Genre:    "Non-fiction",
		Language: "English",
		Title:    entity.DefaultBookTitle,
		Outline:  outline,
		Chapters: chapters,
	}
}
