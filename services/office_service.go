package services

import (
	"errors"
	"fmt"
	"gestionale_veicoli_go/models"
	"strings"

	"gorm.io/gorm"
)

// DestinationOfficeForm is the data-entry payload for a destination office
type DestinationOfficeForm struct {
	OfficeType string `json:"office_type"`
	Name       string `json:"name"`
	TaxCode    string `json:"tax_code"`
	VatNumber  string `json:"vat_number"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Pec        string `json:"pec"`
	Notes      string `json:"notes"`
}

// validateOfficeForm enforces the registry invariant: a natural person
// requires a tax code and carries no VAT number, a legal entity requires a
// VAT number.
func validateOfficeForm(form *DestinationOfficeForm) error {
	if !models.IsValidOfficeType(form.OfficeType) {
		return NewValidationError("Tipo ufficio non valido: %q.", form.OfficeType)
	}
	if strings.TrimSpace(form.Name) == "" {
		return NewValidationError("Il nome è obbligatorio.")
	}

	switch form.OfficeType {
	case models.OfficeTypePersonaFisica:
		if normalizeString(form.TaxCode) == nil {
			return NewValidationError("Il codice fiscale è obbligatorio per una persona fisica.")
		}
		if normalizeString(form.VatNumber) != nil {
			return NewValidationError("Una persona fisica non può avere una partita IVA.")
		}
	case models.OfficeTypePersonaGiuridica:
		if normalizeString(form.VatNumber) == nil {
			return NewValidationError("La partita IVA è obbligatoria per una persona giuridica.")
		}
	}
	return nil
}

// ListDestinationOffices returns the registry sorted by name
func ListDestinationOffices(db *gorm.DB) ([]models.DestinationOffice, error) {
	var offices []models.DestinationOffice
	if err := db.Order("name ASC").Find(&offices).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch destination offices: %w", err)
	}
	return offices, nil
}

// CreateDestinationOffice inserts a registry entry after validating the
// office-type invariant.
func CreateDestinationOffice(db *gorm.DB, form *DestinationOfficeForm) (*models.DestinationOffice, error) {
	if err := validateOfficeForm(form); err != nil {
		return nil, err
	}

	office := models.DestinationOffice{
		OfficeType: form.OfficeType,
		Name:       strings.TrimSpace(form.Name),
		TaxCode:    normalizeString(form.TaxCode),
		VatNumber:  normalizeString(form.VatNumber),
		Address:    normalizeString(form.Address),
		City:       normalizeString(form.City),
		Province:   normalizeString(form.Province),
		PostalCode: normalizeString(form.PostalCode),
		Phone:      normalizeString(form.Phone),
		Email:      normalizeString(form.Email),
		Pec:        normalizeString(form.Pec),
		Notes:      normalizeString(form.Notes),
	}
	if err := db.Create(&office).Error; err != nil {
		return nil, fmt.Errorf("failed to create destination office: %w", err)
	}
	return &office, nil
}

// UpdateDestinationOffice rewrites a registry entry
func UpdateDestinationOffice(db *gorm.DB, id string, form *DestinationOfficeForm) (*models.DestinationOffice, error) {
	if err := validateOfficeForm(form); err != nil {
		return nil, err
	}

	var office models.DestinationOffice
	if err := db.First(&office, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Ufficio destinatario non trovato.")
		}
		return nil, fmt.Errorf("failed to fetch destination office: %w", err)
	}

	patch := map[string]interface{}{
		"office_type": form.OfficeType,
		"name":        strings.TrimSpace(form.Name),
		"tax_code":    normalizeString(form.TaxCode),
		"vat_number":  normalizeString(form.VatNumber),
		"address":     normalizeString(form.Address),
		"city":        normalizeString(form.City),
		"province":    normalizeString(form.Province),
		"postal_code": normalizeString(form.PostalCode),
		"phone":       normalizeString(form.Phone),
		"email":       normalizeString(form.Email),
		"pec":         normalizeString(form.Pec),
		"notes":       normalizeString(form.Notes),
	}
	if err := db.Model(&office).Updates(patch).Error; err != nil {
		return nil, fmt.Errorf("failed to update destination office: %w", err)
	}
	return &office, nil
}

// DeleteDestinationOffices bulk-deletes registry entries. Deletion is
// blocked while any case still references one of the offices, so printed
// release documents never lose their addressee.
func DeleteDestinationOffices(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var referenced int64
	err := db.Model(&models.Case{}).Where("destination_office_id IN ?", ids).Count(&referenced).Error
	if err != nil {
		return fmt.Errorf("failed to check office references: %w", err)
	}
	if referenced > 0 {
		return NewConflictError("Impossibile eliminare: %d pratiche fanno ancora riferimento agli uffici selezionati.", referenced)
	}

	if err := db.Where("id IN ?", ids).Delete(&models.DestinationOffice{}).Error; err != nil {
		return fmt.Errorf("failed to delete destination offices: %w", err)
	}
	return nil
}
