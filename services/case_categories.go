package services

import (
	"gestionale_veicoli_go/models"
	"strings"
)

// CaseSubOption is a selectable subcategory within a procedure category
type CaseSubOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// CaseCategoryOption is a procedure category shown on the creation sidebar
type CaseCategoryOption struct {
	Key        string          `json:"key"`
	Label      string          `json:"label"`
	SubOptions []CaseSubOption `json:"sub_options,omitempty"`
}

// CaseCategories is the fixed category tree for new cases
var CaseCategories = []CaseCategoryOption{
	{
		Key:   models.ProcedureTypeAmministrativo,
		Label: "AMMINISTRATIVO",
		SubOptions: []CaseSubOption{
			{Key: "sequestri", Label: "SEQUESTRI ART. 8"},
			{Key: "sives", Label: "SIVES"},
		},
	},
	{
		Key:   models.ProcedureTypePenale,
		Label: "PENALE",
		SubOptions: []CaseSubOption{
			{Key: "penale_generale", Label: "PENALE GENERALE"},
		},
	},
}

// DefaultCategoryKey is the category preselected for new cases
var DefaultCategoryKey = CaseCategories[0].Key

// DefaultSubCategoryKey is the subcategory preselected for new cases
var DefaultSubCategoryKey = CaseCategories[0].SubOptions[0].Key

// CategoryContext carries the classification derived from the operator's
// category/subcategory choice into the case write path.
type CategoryContext struct {
	CategoryKey      string
	ProcedureType    string
	SubCategoryLabel *string
}

// DeriveProcedureMeta resolves a category/subcategory key pair into the
// procedure type and subcategory label stored on the case. Unknown keys fall
// back to the first category/sub-option, so the stored subcategory is never
// NULL: SQLite treats NULLs as distinct in the composite unique index, which
// would leave a NULL-subcategory scope without the store-level uniqueness
// backstop.
func DeriveProcedureMeta(categoryKey, subCategoryKey string) CategoryContext {
	category := CaseCategories[0]
	for _, item := range CaseCategories {
		if item.Key == categoryKey {
			category = item
			break
		}
	}

	ctx := CategoryContext{
		CategoryKey:   category.Key,
		ProcedureType: category.Key,
	}
	sub := category.SubOptions[0]
	for _, item := range category.SubOptions {
		if item.Key == subCategoryKey {
			sub = item
			break
		}
	}
	label := sub.Label
	ctx.SubCategoryLabel = &label
	return ctx
}

// DeriveCategoryFromCase maps a stored case back to the category tree keys,
// matching the subcategory by key or by label.
func DeriveCategoryFromCase(record *models.Case) (categoryKey string, subCategoryKey *string) {
	procedureKey := strings.ToLower(record.ProcedureType)

	category := CaseCategories[0]
	for _, item := range CaseCategories {
		if item.Key == procedureKey {
			category = item
			break
		}
	}

	if len(category.SubOptions) == 0 {
		return category.Key, nil
	}

	normalized := ""
	if record.Subcategory != nil {
		normalized = *record.Subcategory
	}
	for _, sub := range category.SubOptions {
		if sub.Key == normalized || strings.EqualFold(sub.Label, normalized) {
			key := sub.Key
			return category.Key, &key
		}
	}
	key := category.SubOptions[0].Key
	return category.Key, &key
}
