package docvault

import (
	"fmt"
	"regexp"
	"strings"

	"docvault/internal/config"
	"docvault/internal/domain"
	models "docvault/internal/domain/models/docvault"
	docvaultSvc "docvault/internal/domain/services/docvault"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var slugRule = validation.Match(slugPattern).Error("slug may contain only letters, numbers, hyphens and underscores")

// invalid wraps an ozzo error so errors.Is(err, domain.ErrValidation) holds
func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func validateCreateCategory(req *docvaultSvc.CreateCategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)

	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxCategoryNameLength)),
		validation.Field(&req.Slug, validation.Required, validation.RuneLength(1, config.MaxCategorySlugLength), slugRule),
	))
}

func validateUpdateCategory(req *docvaultSvc.UpdateCategoryRequest) error {
	if req.Name == nil && req.Slug == nil && req.Description == nil && !req.ParentID.Present {
		return invalid(fmt.Errorf("at least one field must be provided"))
	}

	var rules []*validation.FieldRules
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
		rules = append(rules, validation.Field(&req.Name, validation.Required, validation.RuneLength(1, config.MaxCategoryNameLength)))
	}
	if req.Slug != nil {
		*req.Slug = strings.TrimSpace(*req.Slug)
		rules = append(rules, validation.Field(&req.Slug, validation.Required, validation.RuneLength(1, config.MaxCategorySlugLength), slugRule))
	}
	return invalid(validation.ValidateStruct(req, rules...))
}

func validateCreateDocument(req *docvaultSvc.CreateDocumentRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)

	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.RuneLength(1, config.MaxDocumentTitleLength)),
		validation.Field(&req.Slug, validation.Required, validation.RuneLength(1, config.MaxDocumentSlugLength), slugRule),
		validation.Field(&req.CategoryID, validation.Required, validation.Min(int64(1))),
	))
}

func validateUpdateDocument(req *docvaultSvc.UpdateDocumentRequest) error {
	if req.Title == nil && req.Slug == nil && req.CategoryID == nil && req.Content == nil {
		return invalid(fmt.Errorf("at least one field must be provided"))
	}

	var rules []*validation.FieldRules
	if req.Title != nil {
		*req.Title = strings.TrimSpace(*req.Title)
		rules = append(rules, validation.Field(&req.Title, validation.Required, validation.RuneLength(1, config.MaxDocumentTitleLength)))
	}
	if req.Slug != nil {
		*req.Slug = strings.TrimSpace(*req.Slug)
		rules = append(rules, validation.Field(&req.Slug, validation.Required, validation.RuneLength(1, config.MaxDocumentSlugLength), slugRule))
	}
	if req.CategoryID != nil {
		rules = append(rules, validation.Field(&req.CategoryID, validation.Required, validation.Min(int64(1))))
	}
	return invalid(validation.ValidateStruct(req, rules...))
}

func validateCreateChangelog(req *docvaultSvc.CreateChangelogRequest) error {
	req.Description = strings.TrimSpace(req.Description)
	if req.Importance == "" {
		req.Importance = models.ImportanceNormal
	}

	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Importance, validation.Required, validation.In(models.ImportanceMinor, models.ImportanceNormal, models.ImportanceMajor)),
		validation.Field(&req.VersionNumber, validation.NilOrNotEmpty, validation.Min(1)),
	))
}
