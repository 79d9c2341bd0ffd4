package site

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	GridColumns = 9
	MaxRowSpan  = 50
)

// Validate checks the editor invariants on data: unique block ids, known
// block types, and spans and placements inside the 9 column grid. The
// exporter itself trusts its input. Validate is for ingest boundaries.
func Validate(data SiteData) error {
	errs := validation.Errors{}
	seen := make(map[string]int, len(data.Blocks))

	for i := range data.Blocks {
		block := data.Blocks[i]
		key := fmt.Sprintf("blocks[%d]", i)

		if err := validateBlock(&block); err != nil {
			errs[key] = err
			continue
		}
		if first, dup := seen[block.ID]; dup {
			errs[key] = validation.NewError("validation_duplicate_id",
				fmt.Sprintf("id %q already used by blocks[%d]", block.ID, first))
			continue
		}
		seen[block.ID] = i

		if block.GridColumn != nil && *block.GridColumn+block.ColSpan > GridColumns+1 {
			errs[key] = validation.NewError("validation_grid_overflow",
				fmt.Sprintf("gridColumn %d with colSpan %d overflows the %d column grid", *block.GridColumn, block.ColSpan, GridColumns))
		}
	}

	for i, account := range data.Profile.SocialAccounts {
		if account.Platform == "" || account.Handle == "" {
			errs[fmt.Sprintf("profile.socialAccounts[%d]", i)] = validation.NewError("validation_required", "platform and handle are required")
		}
	}

	return errs.Filter()
}

func validateBlock(block *Block) error {
	types := make([]any, 0, len(BlockTypes()))
	for _, t := range BlockTypes() {
		types = append(types, t)
	}
	return validation.ValidateStruct(block,
		validation.Field(&block.ID, validation.Required, validation.By(fileSafeID)),
		validation.Field(&block.Type, validation.Required, validation.In(types...)),
		validation.Field(&block.ColSpan, validation.Required, validation.Min(1), validation.Max(GridColumns)),
		validation.Field(&block.RowSpan, validation.Required, validation.Min(1), validation.Max(MaxRowSpan)),
		validation.Field(&block.GridColumn, validation.Min(1), validation.Max(GridColumns)),
		validation.Field(&block.GridRow, validation.Min(1)),
		validation.Field(&block.YouTubeMode, validation.In(YouTubeSingle, YouTubeGrid, YouTubeList)),
	)
}

// Block ids name exported asset files, so they may not carry path syntax.
func fileSafeID(value any) error {
	id, _ := value.(string)
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return errors.New("must not contain path separators or \"..\"")
	}
	return nil
}
