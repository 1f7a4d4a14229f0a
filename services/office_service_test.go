package services

import (
	"gestionale_veicoli_go/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func officeForm(officeType, name string) *DestinationOfficeForm {
	form := &DestinationOfficeForm{
		OfficeType: officeType,
		Name:       name,
		City:       "Napoli",
		Province:   "NA",
	}
	switch officeType {
	case models.OfficeTypePersonaFisica:
		form.TaxCode = "RSSMRA80A01F839X"
	case models.OfficeTypePersonaGiuridica:
		form.VatNumber = "01234567890"
	}
	return form
}

func TestCreateOfficeNaturalPerson(t *testing.T) {
	db := setupTestDB(t)

	office, err := CreateDestinationOffice(db, officeForm(models.OfficeTypePersonaFisica, "Mario Rossi"))
	assert.NoError(t, err)
	assert.True(t, office.IsNaturalPerson())
	assert.Equal(t, "RSSMRA80A01F839X", *office.TaxCode)
	assert.Nil(t, office.VatNumber)
}

func TestCreateOfficeNaturalPersonRequiresTaxCode(t *testing.T) {
	db := setupTestDB(t)

	form := officeForm(models.OfficeTypePersonaFisica, "Mario Rossi")
	form.TaxCode = ""
	_, err := CreateDestinationOffice(db, form)
	assert.True(t, IsValidation(err))
}

func TestCreateOfficeNaturalPersonRejectsVat(t *testing.T) {
	db := setupTestDB(t)

	form := officeForm(models.OfficeTypePersonaFisica, "Mario Rossi")
	form.VatNumber = "01234567890"
	_, err := CreateDestinationOffice(db, form)
	assert.True(t, IsValidation(err))
}

func TestCreateOfficeLegalEntityRequiresVat(t *testing.T) {
	db := setupTestDB(t)

	form := officeForm(models.OfficeTypePersonaGiuridica, "Prefettura di Napoli")
	form.VatNumber = ""
	_, err := CreateDestinationOffice(db, form)
	assert.True(t, IsValidation(err))
}

func TestCreateOfficeInvalidType(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateDestinationOffice(db, officeForm("ditta", "Qualcosa"))
	assert.True(t, IsValidation(err))
}

func TestListOfficesSortedByName(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateDestinationOffice(db, officeForm(models.OfficeTypePersonaGiuridica, "Zeta Srl"))
	assert.NoError(t, err)
	_, err = CreateDestinationOffice(db, officeForm(models.OfficeTypePersonaGiuridica, "Alfa Spa"))
	assert.NoError(t, err)

	offices, err := ListDestinationOffices(db)
	assert.NoError(t, err)
	assert.Len(t, offices, 2)
	assert.Equal(t, "Alfa Spa", offices[0].Name)
	assert.Equal(t, "Zeta Srl", offices[1].Name)
}

func TestUpdateOffice(t *testing.T) {
	db := setupTestDB(t)

	office, err := CreateDestinationOffice(db, officeForm(models.OfficeTypePersonaGiuridica, "Prefettura"))
	assert.NoError(t, err)

	form := officeForm(models.OfficeTypePersonaGiuridica, "Prefettura di Napoli")
	form.Pec = "prefettura@pec.example.it"
	updated, err := UpdateDestinationOffice(db, office.ID, form)
	assert.NoError(t, err)
	assert.Equal(t, "Prefettura di Napoli", updated.Name)

	var reloaded models.DestinationOffice
	assert.NoError(t, db.First(&reloaded, "id = ?", office.ID).Error)
	assert.Equal(t, "prefettura@pec.example.it", *reloaded.Pec)
}

func TestUpdateMissingOffice(t *testing.T) {
	db := setupTestDB(t)

	_, err := UpdateDestinationOffice(db, "does-not-exist",
		officeForm(models.OfficeTypePersonaGiuridica, "Prefettura"))
	assert.True(t, IsNotFound(err))
}

func TestDeleteOfficeBlockedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)

	office, err := CreateDestinationOffice(db, officeForm(models.OfficeTypePersonaGiuridica, "Prefettura"))
	assert.NoError(t, err)

	form := seizureForm("101", "AB123CD")
	form.DestinationOfficeID = &office.ID
	record, err := CreateCaseFromForm(db, form, defaultContext())
	assert.NoError(t, err)

	err = DeleteDestinationOffices(db, []string{office.ID})
	assert.True(t, IsConflict(err))

	// Once the case is gone the office can be removed
	assert.NoError(t, DeleteCases(db, []string{record.ID}))
	assert.NoError(t, DeleteDestinationOffices(db, []string{office.ID}))

	offices, err := ListDestinationOffices(db)
	assert.NoError(t, err)
	assert.Empty(t, offices)
}

func TestDeleteOfficesEmptyInputIsNoop(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, DeleteDestinationOffices(db, nil))
}
