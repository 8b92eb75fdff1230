package cmd

import (
	"context"
	"fmt"
	"time"

	clientsApp "github.com/AzielCF/az-gym/clients/application"
	clientsRepo "github.com/AzielCF/az-gym/clients/repository"
	coreconfig "github.com/AzielCF/az-gym/core/config"
	coreDB "github.com/AzielCF/az-gym/core/database"
	settingsApp "github.com/AzielCF/az-gym/core/settings/application"
	settingsInfra "github.com/AzielCF/az-gym/core/settings/infrastructure"
	gymApp "github.com/AzielCF/az-gym/gymaccess/application"
	gymDomain "github.com/AzielCF/az-gym/gymaccess/domain"
	gymRepo "github.com/AzielCF/az-gym/gymaccess/repository"
	"github.com/AzielCF/az-gym/infrastructure/valkey"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/AzielCF/az-gym/pkg/utils"
	rewardsRepo "github.com/AzielCF/az-gym/rewards/repository"
	schedulesApp "github.com/AzielCF/az-gym/schedules/application"
	schedulesRepo "github.com/AzielCF/az-gym/schedules/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// gymApplication agrupa las dependencias que comparten los comandos
type gymApplication struct {
	cfg *coreconfig.Config
	db  *gorm.DB
	loc *time.Location
	vk  *valkey.Client

	settings  *settingsApp.SettingsService
	clients   *clientsRepo.ClientGormRepository
	schedules *schedulesRepo.ScheduleGormRepository
	rewards   *rewardsRepo.RewardGormRepository
	records   *gymRepo.AccessRecordGormRepository
}

type schemaInitializer interface {
	InitSchema(ctx context.Context) error
}

// openApplication abre la base, aplica los ajustes persistidos y crea el esquema
func openApplication(ctx context.Context) (*gymApplication, error) {
	cfg := coreconfig.Global
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	if err := utils.EnsureDatabaseDir(cfg.Database.Driver, cfg.Database.Name); err != nil {
		return nil, err
	}
	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	settingsRepo := settingsInfra.NewSettingsGormRepository(db)
	a := &gymApplication{
		cfg:       cfg,
		db:        db,
		settings:  settingsApp.NewSettingsService(settingsRepo),
		clients:   clientsRepo.NewClientGormRepository(db),
		schedules: schedulesRepo.NewScheduleGormRepository(db),
		rewards:   rewardsRepo.NewRewardGormRepository(db),
		records:   gymRepo.NewAccessRecordGormRepository(db),
	}

	// clients antes que access_records
	for _, repo := range []schemaInitializer{settingsRepo, a.clients, a.schedules, a.rewards, a.records} {
		if err := repo.InitSchema(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	if err := a.settings.Apply(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	if a.loc, err = timeutils.LoadLocation(cfg.Gym.Timezone); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// connectCache conecta Valkey si está habilitado. Sin Valkey el guard consulta solo la base.
func (a *gymApplication) connectCache() gymDomain.GrantCache {
	if !a.cfg.Database.ValkeyEnabled {
		return nil
	}
	vk, err := valkey.NewClient(valkey.Config{
		Address:   a.cfg.Database.ValkeyAddress,
		Password:  a.cfg.Database.ValkeyPassword,
		DB:        a.cfg.Database.ValkeyDB,
		KeyPrefix: a.cfg.Database.ValkeyKeyPrefix,
	})
	if err != nil {
		logrus.WithError(err).Warn("[VALKEY] Grant cache disabled, continuing with database only")
		return nil
	}
	a.vk = vk
	logrus.Infof("[VALKEY] Grant cache connected at %s", a.cfg.Database.ValkeyAddress)
	return gymRepo.NewValkeyGrantCache(vk, a.cfg.Gym.GrantCacheTTL)
}

func (a *gymApplication) accessService(cache gymDomain.GrantCache) *gymApp.AccessService {
	return gymApp.NewAccessService(
		a.clients,
		schedulesApp.NewLookupService(a.schedules),
		gymApp.NewDailyGuard(a.records, cache),
		a.records,
		a.rewards,
		cache,
		gymApp.AccessConfig{
			Location:    a.loc,
			EarlyAccess: a.cfg.Gym.EarlyAccess,
			LateAccess:  a.cfg.Gym.LateAccess,
		},
	)
}

func (a *gymApplication) historyService() *gymApp.HistoryService {
	return gymApp.NewHistoryService(a.records, a.loc, a.cfg.Gym.HistoryMaxLimit)
}

func (a *gymApplication) clientService() *clientsApp.ClientService {
	return clientsApp.NewClientService(a.clients)
}

// Close libera la base y Valkey
func (a *gymApplication) Close() {
	if a.vk != nil {
		a.vk.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
