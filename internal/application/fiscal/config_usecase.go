package fiscal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retailcore/pos-api/internal/application/dto"
	"github.com/retailcore/pos-api/internal/domain"
	"github.com/retailcore/pos-api/internal/domain/entity"
	"github.com/retailcore/pos-api/internal/domain/repository"
	"github.com/retailcore/pos-api/pkg/fdms"
	"github.com/retailcore/pos-api/pkg/logger"
)

// ConfigUseCase implements fiscal configuration upsert and device
// provisioning.
//
// Provisioning asymmetry, kept on purpose: the upsert path leaves a freshly
// synthesized device in Pending, while the PATCH toggle path auto-activates
// it. Integrators relying on the original behavior depend on this difference,
// so it is preserved rather than unified.
type ConfigUseCase struct {
	configRepo repository.FiscalConfigRepository
	deviceRepo repository.FiscalDeviceRepository
	submitter  Submitter // may be nil; device registration is then skipped
	log        *logger.Logger
}

// NewConfigUseCase builds the use case.
func NewConfigUseCase(
	configRepo repository.FiscalConfigRepository,
	deviceRepo repository.FiscalDeviceRepository,
	submitter Submitter,
	log *logger.Logger,
) *ConfigUseCase {
	return &ConfigUseCase{configRepo: configRepo, deviceRepo: deviceRepo, submitter: submitter, log: log}
}

// Get returns the active configuration with its device, or ErrNotFound.
func (uc *ConfigUseCase) Get(ctx context.Context) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	out := toConfigResponse(cfg)
	device, err := uc.deviceRepo.GetByConfiguration(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if device != nil {
		out.Device = toDeviceResponse(device)
	}
	return out, nil
}

// Upsert creates or updates the configuration for the request's TIN.
// Validation happens before any write: a malformed TIN or missing identity
// field never reaches the repository.
func (uc *ConfigUseCase) Upsert(ctx context.Context, in dto.UpsertFiscalConfigRequest) (*dto.FiscalConfigResponse, error) {
	in.TIN = strings.TrimSpace(in.TIN)
	if err := fdms.ValidateTIN(in.TIN); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	if in.BusinessName == "" || in.BusinessType == "" || in.BranchName == "" || in.BranchAddress == "" {
		return nil, fmt.Errorf("%w: businessName, businessType, branchName and branchAddress are required", domain.ErrInvalidInput)
	}

	now := time.Now()
	cfg, err := uc.configRepo.GetByTIN(ctx, in.TIN)
	if err != nil {
		return nil, err
	}
	created := cfg == nil
	if created {
		cfg = &entity.FiscalConfiguration{
			ID:        uuid.New().String(),
			TIN:       in.TIN,
			Status:    entity.FiscalConfigPending,
			CreatedAt: now,
		}
	}
	cfg.VATNumber = in.VATNumber
	cfg.BusinessName = in.BusinessName
	cfg.BusinessType = in.BusinessType
	cfg.BranchName = in.BranchName
	cfg.BranchAddress = in.BranchAddress
	cfg.Enabled = in.IsFDMSEnabled
	cfg.TestEnvironment = in.TestEnvironment
	cfg.UpdatedAt = now

	if created {
		if err := uc.configRepo.Create(ctx, cfg); err != nil {
			return nil, err
		}
	} else {
		if err := uc.configRepo.Update(ctx, cfg); err != nil {
			return nil, err
		}
	}

	out := toConfigResponse(cfg)
	if cfg.Enabled {
		device, err := uc.ensureDevice(ctx, cfg, entity.DeviceStatusPending, now)
		if err != nil {
			return nil, err
		}
		out.Device = toDeviceResponse(device)
	}
	return out, nil
}

// Toggle flips the enabled flag. Enabling provisions a device if none exists
// and auto-activates it (unlike Upsert, which leaves it Pending).
func (uc *ConfigUseCase) Toggle(ctx context.Context, enabled bool) (*dto.FiscalConfigResponse, error) {
	cfg, err := uc.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	cfg.Enabled = enabled
	cfg.UpdatedAt = now
	if err := uc.configRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}

	out := toConfigResponse(cfg)
	if enabled {
		device, err := uc.ensureDevice(ctx, cfg, entity.DeviceStatusActive, now)
		if err != nil {
			return nil, err
		}
		if device.Status != entity.DeviceStatusActive {
			device.Status = entity.DeviceStatusActive
			device.ActivatedAt = &now
			device.UpdatedAt = now
			if err := uc.deviceRepo.Update(ctx, device); err != nil {
				return nil, err
			}
		}
		out.Device = toDeviceResponse(device)
	}
	return out, nil
}

// ensureDevice returns the configuration's device, synthesizing one with
// zeroed counters when none exists yet. Exactly one device per configuration:
// a second enable never creates another row.
func (uc *ConfigUseCase) ensureDevice(ctx context.Context, cfg *entity.FiscalConfiguration, status string, now time.Time) (*entity.FiscalDevice, error) {
	device, err := uc.deviceRepo.GetByConfiguration(ctx, cfg.ID)
	if err != nil {
		return nil, err
	}
	if device != nil {
		return device, nil
	}

	device = &entity.FiscalDevice{
		ID:              uuid.New().String(),
		ConfigurationID: cfg.ID,
		DeviceID:        fdms.DeviceID(cfg.TIN, now),
		SerialNo:        fdms.DeviceSerial(cfg.TIN, now),
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == entity.DeviceStatusActive {
		device.ActivatedAt = &now
	}
	if err := uc.deviceRepo.Create(ctx, device); err != nil {
		return nil, err
	}

	if uc.submitter != nil {
		if err := uc.submitter.RegisterDevice(ctx, cfg.TIN, device.DeviceID, device.SerialNo); err != nil {
			// Registration is retried on the next submission; the local row
			// is the source of truth for provisioning.
			uc.log.Warn().Err(err).Str("device_id", device.DeviceID).Msg("FDMS device registration failed")
		}
	}
	return device, nil
}

func toConfigResponse(cfg *entity.FiscalConfiguration) *dto.FiscalConfigResponse {
	return &dto.FiscalConfigResponse{
		Success:         true,
		ID:              cfg.ID,
		TIN:             cfg.TIN,
		VATNumber:       cfg.VATNumber,
		BusinessName:    cfg.BusinessName,
		BusinessType:    cfg.BusinessType,
		BranchName:      cfg.BranchName,
		BranchAddress:   cfg.BranchAddress,
		Enabled:         cfg.Enabled,
		TestEnvironment: cfg.TestEnvironment,
		Status:          cfg.Status,
	}
}

func toDeviceResponse(d *entity.FiscalDevice) *dto.FiscalDeviceResponse {
	return &dto.FiscalDeviceResponse{
		ID:                   d.ID,
		DeviceID:             d.DeviceID,
		SerialNo:             d.SerialNo,
		GlobalReceiptCounter: d.GlobalReceiptCounter,
		DailyReceiptCounter:  d.DailyReceiptCounter,
		Status:               d.Status,
	}
}
