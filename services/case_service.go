package services

import (
	"errors"
	"fmt"
	"gestionale_veicoli_go/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryNoteCreated is the note recorded when a case is first created
const HistoryNoteCreated = "Pratica creata"

// PriorCaseContext carries what the edit flow already knows about the case
// being updated.
type PriorCaseContext struct {
	VehicleID  *string
	CaseNumber string
}

// FetchCases loads the full case list with its vehicle, details and office
// relations, newest first. Display ordering is applied by the board.
func FetchCases(db *gorm.DB) ([]models.Case, error) {
	var cases []models.Case
	err := db.Preload("Vehicle").Preload("Details").Preload("DestinationOffice").
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cases: %w", err)
	}
	return cases, nil
}

// GetCase loads a single case with its relations
func GetCase(db *gorm.DB, caseID string) (*models.Case, error) {
	var record models.Case
	err := db.Preload("Vehicle").Preload("Details").Preload("DestinationOffice").
		First(&record, "id = ?", caseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Pratica non trovata.")
		}
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	return &record, nil
}

// CreateCaseFromForm creates a case together with its vehicle, detail row
// and initial status history entry. The whole sequence runs in one
// transaction so a failing step leaves no orphan rows behind.
func CreateCaseFromForm(db *gorm.DB, form *SeizureCaseForm, ctx CategoryContext) (*models.Case, error) {
	internalNumber := form.NormalizedInternalNumber()
	if internalNumber == "" {
		return nil, NewValidationError("Il numero interno della pratica è obbligatorio.")
	}

	plate := form.NormalizedPlate()
	if plate == "" {
		return nil, NewValidationError("Il numero di targa è obbligatorio.")
	}

	var created models.Case
	err := db.Transaction(func(tx *gorm.DB) error {
		vehicle, err := upsertVehicleByPlate(tx, plate, form)
		if err != nil {
			return err
		}

		if err := checkInternalNumberUnique(tx, ctx, internalNumber, ""); err != nil {
			return err
		}

		caseNumber := form.ProcedureNumber
		if normalizeString(caseNumber) == nil {
			caseNumber = "CASE-" + time.Now().UTC().Format("20060102150405")
		}

		openedAt := time.Now()
		if seized := normalizeDate(form.SeizureDate); seized != nil {
			openedAt = *seized
		}

		created = models.Case{
			VehicleID:           &vehicle.ID,
			CaseNumber:          caseNumber,
			ProcedureType:       ctx.ProcedureType,
			Subcategory:         ctx.SubCategoryLabel,
			Status:              models.CaseStatusOpen,
			OpenedAt:            openedAt,
			Description:         normalizeString(form.Notes),
			Location:            normalizeString(form.DestinationOffice),
			DestinationOfficeID: form.DestinationOfficeID,
			BoardKey:            normalizeString(form.BoardKey),
			InternalNumber:      &internalNumber,
		}
		if err := tx.Create(&created).Error; err != nil {
			return translateCaseWriteError(err, ctx, internalNumber)
		}

		details := buildDetailsRow(created.ID, plate, form)
		if err := tx.Create(details).Error; err != nil {
			return fmt.Errorf("failed to save seizure details: %w", err)
		}

		note := HistoryNoteCreated
		history := models.CaseStatusHistory{
			CaseID: created.ID,
			Status: models.CaseStatusOpen,
			Notes:  &note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to save status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetCase(db, created.ID)
}

// UpdateCaseFromForm re-runs the composite write for an existing case: the
// uniqueness check excludes the case itself and the vehicle is upserted by
// id instead of plate.
func UpdateCaseFromForm(db *gorm.DB, caseID string, form *SeizureCaseForm, ctx CategoryContext, prior PriorCaseContext) (*models.Case, error) {
	internalNumber := form.NormalizedInternalNumber()
	if internalNumber == "" {
		return nil, NewValidationError("Il numero interno della pratica è obbligatorio.")
	}

	plate := form.NormalizedPlate()
	if plate == "" {
		return nil, NewValidationError("Il numero di targa è obbligatorio.")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Case
		if err := tx.First(&existing, "id = ?", caseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Pratica non trovata.")
			}
			return fmt.Errorf("failed to fetch case: %w", err)
		}

		vehicle, err := upsertVehicleByID(tx, prior.VehicleID, plate, form)
		if err != nil {
			return err
		}

		if err := checkInternalNumberUnique(tx, ctx, internalNumber, caseID); err != nil {
			return err
		}

		caseNumber := form.ProcedureNumber
		if normalizeString(caseNumber) == nil {
			caseNumber = prior.CaseNumber
		}
		if caseNumber == "" {
			caseNumber = "CASE-" + caseID
		}

		patch := map[string]interface{}{
			"vehicle_id":            vehicle.ID,
			"case_number":           caseNumber,
			"procedure_type":        ctx.ProcedureType,
			"subcategory":           ctx.SubCategoryLabel,
			"description":           normalizeString(form.Notes),
			"location":              normalizeString(form.DestinationOffice),
			"destination_office_id": form.DestinationOfficeID,
			"board_key":             normalizeString(form.BoardKey),
			"internal_number":       internalNumber,
		}
		if err := tx.Model(&models.Case{}).Where("id = ?", caseID).Updates(patch).Error; err != nil {
			return translateCaseWriteError(err, ctx, internalNumber)
		}

		details := buildDetailsRow(caseID, plate, form)
		result := tx.Model(&models.SeizureCaseDetails{}).Where("case_id = ?", caseID).Updates(detailsPatch(details))
		if result.Error != nil {
			return fmt.Errorf("failed to update seizure details: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Detail row missing (legacy data): recreate it
			if err := tx.Create(details).Error; err != nil {
				return fmt.Errorf("failed to save seizure details: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetCase(db, caseID)
}

// DeleteCases bulk-deletes cases by id together with their dependent detail,
// history and lock rows. No-op on empty input.
func DeleteCases(db *gorm.DB, caseIDs []string) error {
	if len(caseIDs) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id IN ?", caseIDs).Delete(&models.SeizureCaseDetails{}).Error; err != nil {
			return fmt.Errorf("failed to delete seizure details: %w", err)
		}
		if err := tx.Where("case_id IN ?", caseIDs).Delete(&models.CaseStatusHistory{}).Error; err != nil {
			return fmt.Errorf("failed to delete status history: %w", err)
		}
		if err := tx.Where("case_id IN ?", caseIDs).Delete(&models.CaseEditLock{}).Error; err != nil {
			return fmt.Errorf("failed to delete case locks: %w", err)
		}
		if err := tx.Where("id IN ?", caseIDs).Delete(&models.Case{}).Error; err != nil {
			return fmt.Errorf("failed to delete cases: %w", err)
		}
		return nil
	})
}

// MarkCaseReleased transitions a case to "rilasciato" and appends the
// matching status history entry.
func MarkCaseReleased(db *gorm.DB, caseID string, notes string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var record models.Case
		if err := tx.First(&record, "id = ?", caseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("Pratica non trovata.")
			}
			return fmt.Errorf("failed to fetch case: %w", err)
		}

		now := time.Now()
		patch := map[string]interface{}{
			"status":    models.CaseStatusReleased,
			"closed_at": now,
		}
		if err := tx.Model(&record).Updates(patch).Error; err != nil {
			return fmt.Errorf("failed to update case status: %w", err)
		}

		history := models.CaseStatusHistory{
			CaseID: caseID,
			Status: models.CaseStatusReleased,
			Notes:  normalizeString(notes),
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to save status history: %w", err)
		}
		return nil
	})
}

// GetCaseHistory lists the status history of a case, oldest first
func GetCaseHistory(db *gorm.DB, caseID string) ([]models.CaseStatusHistory, error) {
	var entries []models.CaseStatusHistory
	err := db.Where("case_id = ?", caseID).Order("created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status history: %w", err)
	}
	return entries, nil
}

// upsertVehicleByPlate inserts the vehicle or refreshes the existing row
// sharing the same plate (conflict target: plate).
func upsertVehicleByPlate(tx *gorm.DB, plate string, form *SeizureCaseForm) (*models.Vehicle, error) {
	vehicle := models.Vehicle{
		Plate: plate,
		Vin:   normalizeString(form.VinNumber),
		Brand: normalizeString(form.VehicleBrandModel),
		Notes: normalizeString(form.Notes),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plate"}},
		DoUpdates: clause.AssignmentColumns([]string{"vin", "brand", "notes", "updated_at"}),
	}).Create(&vehicle).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vehicle: %w", err)
	}

	// On conflict the generated id is not reported back: re-read by plate
	var saved models.Vehicle
	if err := tx.First(&saved, "plate = ?", plate).Error; err != nil {
		return nil, fmt.Errorf("failed to reload vehicle: %w", err)
	}
	return &saved, nil
}

// upsertVehicleByID updates the case's vehicle in place (conflict target:
// id), falling back to the plate upsert when the case has no vehicle yet.
func upsertVehicleByID(tx *gorm.DB, vehicleID *string, plate string, form *SeizureCaseForm) (*models.Vehicle, error) {
	if vehicleID == nil || *vehicleID == "" {
		return upsertVehicleByPlate(tx, plate, form)
	}

	vehicle := models.Vehicle{
		ID:    *vehicleID,
		Plate: plate,
		Vin:   normalizeString(form.VinNumber),
		Brand: normalizeString(form.VehicleBrandModel),
		Notes: normalizeString(form.Notes),
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plate", "vin", "brand", "notes", "updated_at"}),
	}).Create(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError("Esiste già un veicolo con targa %s.", plate)
		}
		return nil, fmt.Errorf("failed to upsert vehicle: %w", err)
	}

	var saved models.Vehicle
	if err := tx.First(&saved, "id = ?", *vehicleID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload vehicle: %w", err)
	}
	return &saved, nil
}

// checkInternalNumberUnique is the courtesy pre-check for the internal
// number scope. The composite unique index on the cases table remains the
// backstop for concurrent writers.
func checkInternalNumberUnique(tx *gorm.DB, ctx CategoryContext, internalNumber, excludeCaseID string) error {
	query := tx.Model(&models.Case{}).
		Where("procedure_type = ? AND internal_number = ?", ctx.ProcedureType, internalNumber)
	if ctx.SubCategoryLabel != nil {
		query = query.Where("subcategory = ?", *ctx.SubCategoryLabel)
	} else {
		// The unique index does not cover this branch: SQLite keeps NULL
		// subcategories distinct. DeriveProcedureMeta never produces a nil
		// label, so only rows written outside the form path can land here.
		query = query.Where("subcategory IS NULL")
	}
	if excludeCaseID != "" {
		query = query.Where("id <> ?", excludeCaseID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check internal number uniqueness: %w", err)
	}
	if count > 0 {
		return conflictForScope(ctx, internalNumber)
	}
	return nil
}

// translateCaseWriteError maps a store-level unique-constraint rejection to
// the same ConflictError as the pre-check.
func translateCaseWriteError(err error, ctx CategoryContext, internalNumber string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflictForScope(ctx, internalNumber)
	}
	return fmt.Errorf("failed to save case: %w", err)
}

func conflictForScope(ctx CategoryContext, internalNumber string) *ConflictError {
	scope := ctx.ProcedureType
	if ctx.SubCategoryLabel != nil {
		scope += " / " + *ctx.SubCategoryLabel
	}
	return NewConflictError("Esiste già una pratica con numero interno %q per %s.", internalNumber, scope)
}

func buildDetailsRow(caseID, plate string, form *SeizureCaseForm) *models.SeizureCaseDetails {
	procedureNumber := normalizeString(form.ProcedureNumber)
	return &models.SeizureCaseDetails{
		CaseID:              caseID,
		SeizureDate:         normalizeDate(form.SeizureDate),
		EnforcementBody:     normalizeString(form.EnforcementBody),
		OffenderDetails:     normalizeString(form.OffenderDetails),
		PlateNumber:         &plate,
		VinNumber:           normalizeString(form.VinNumber),
		VehicleType:         normalizeVehicleType(form.VehicleType),
		VehicleBrandModel:   normalizeString(form.VehicleBrandModel),
		VehicleWeight:       normalizeString(form.VehicleWeight),
		InterventionType:    normalizeInterventionType(form.InterventionType),
		CarrierOne:          normalizeString(form.CarrierOne),
		CarrierOneKm:        parseNumberOrNil(form.CarrierOneKm),
		CarrierTwo:          normalizeString(form.CarrierTwo),
		CarrierTwoKm:        parseNumberOrNil(form.CarrierTwoKm),
		EntryDate:           normalizeDate(form.EntryDate),
		EntryReason:         normalizeString(form.EntryReason),
		ExitDate:            normalizeDate(form.ExitDate),
		ExitReason:          normalizeString(form.ExitReason),
		CustodyDuration:     normalizeString(form.CustodyDuration),
		CustodyCosts:        normalizeString(form.CustodyCosts),
		ProcedureNumber:     procedureNumber,
		DestinationOffice:   normalizeString(form.DestinationOffice),
		DestinationOfficeID: form.DestinationOfficeID,
		RequestDate:         normalizeDate(form.RequestDate),
		InvoiceDate:         normalizeDate(form.InvoiceDate),
		InvoiceNumber:       normalizeString(form.InvoiceNumber),
		InvoiceAmount:       normalizeString(form.InvoiceAmount),
		Notes:               normalizeString(form.Notes),
	}
}

// detailsPatch converts a details row to an update map so nil fields clear
// their columns instead of being skipped.
func detailsPatch(d *models.SeizureCaseDetails) map[string]interface{} {
	return map[string]interface{}{
		"seizure_date":          d.SeizureDate,
		"enforcement_body":      d.EnforcementBody,
		"offender_details":      d.OffenderDetails,
		"plate_number":          d.PlateNumber,
		"vin_number":            d.VinNumber,
		"vehicle_type":          d.VehicleType,
		"vehicle_brand_model":   d.VehicleBrandModel,
		"vehicle_weight":        d.VehicleWeight,
		"intervention_type":     d.InterventionType,
		"carrier_one":           d.CarrierOne,
		"carrier_one_km":        d.CarrierOneKm,
		"carrier_two":           d.CarrierTwo,
		"carrier_two_km":        d.CarrierTwoKm,
		"entry_date":            d.EntryDate,
		"entry_reason":          d.EntryReason,
		"exit_date":             d.ExitDate,
		"exit_reason":           d.ExitReason,
		"custody_duration":      d.CustodyDuration,
		"custody_costs":         d.CustodyCosts,
		"procedure_number":      d.ProcedureNumber,
		"destination_office":    d.DestinationOffice,
		"destination_office_id": d.DestinationOfficeID,
		"request_date":          d.RequestDate,
		"invoice_date":          d.InvoiceDate,
		"invoice_number":        d.InvoiceNumber,
		"invoice_amount":        d.InvoiceAmount,
		"notes":                 d.Notes,
	}
}
