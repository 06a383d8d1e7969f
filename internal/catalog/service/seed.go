package service

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"webexpress_backend/internal/catalog/repository"
)

type seedFile struct {
	Plans []struct {
		Slug         string   `yaml:"slug"`
		Name         string   `yaml:"name"`
		Price        int64    `yaml:"price"`
		Features     []string `yaml:"features"`
		IsPopular    bool     `yaml:"isPopular"`
		DisplayOrder int      `yaml:"displayOrder"`
	} `yaml:"plans"`
	Addons []struct {
		Slug         string  `yaml:"slug"`
		Name         string  `yaml:"name"`
		Price        int64   `yaml:"price"`
		PriceMax     *int64  `yaml:"priceMax"`
		BillingType  *string `yaml:"billingType"`
		DisplayOrder int     `yaml:"displayOrder"`
	} `yaml:"addons"`
	RushFees []struct {
		PlanSlug        string `yaml:"planSlug"`
		TimelineID      string `yaml:"timelineId"`
		DisplayName     string `yaml:"displayName"`
		MarkupPercent   int    `yaml:"markupPercent"`
		MarkupFixed     *int64 `yaml:"markupFixed"`
		DeliveryDaysMin *int   `yaml:"deliveryDaysMin"`
		DeliveryDaysMax *int   `yaml:"deliveryDaysMax"`
		DisplayOrder    int    `yaml:"displayOrder"`
	} `yaml:"rushFees"`
}

// SeedFromFile loads the catalog seed file and inserts its plans, add-ons and
// rush fees when the catalog is empty. A populated catalog is left untouched
// so admin edits survive restarts.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	count, err := s.repo.CountPlans(ctx)
	if err != nil {
		return fmt.Errorf("count plans before seeding: %w", err)
	}
	if count > 0 {
		s.log.Debug("catalog already populated, skipping seed", "plans", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	for _, plan := range seed.Plans {
		if _, err := s.repo.CreatePlan(ctx, repository.CreatePlanParams{
			Slug:         plan.Slug,
			Name:         plan.Name,
			Price:        plan.Price,
			Features:     plan.Features,
			IsPopular:    plan.IsPopular,
			IsActive:     true,
			DisplayOrder: plan.DisplayOrder,
		}); err != nil {
			return fmt.Errorf("seed plan %s: %w", plan.Slug, err)
		}
	}

	for _, addon := range seed.Addons {
		if _, err := s.repo.CreateAddon(ctx, repository.CreateAddonParams{
			Slug:         addon.Slug,
			Name:         addon.Name,
			Price:        addon.Price,
			PriceMax:     addon.PriceMax,
			BillingType:  addon.BillingType,
			IsActive:     true,
			DisplayOrder: addon.DisplayOrder,
		}); err != nil {
			return fmt.Errorf("seed addon %s: %w", addon.Slug, err)
		}
	}

	for _, fee := range seed.RushFees {
		if _, err := s.repo.CreateRushFee(ctx, repository.CreateRushFeeParams{
			PlanSlug:        fee.PlanSlug,
			TimelineID:      fee.TimelineID,
			DisplayName:     fee.DisplayName,
			MarkupPercent:   fee.MarkupPercent,
			MarkupFixed:     fee.MarkupFixed,
			DeliveryDaysMin: fee.DeliveryDaysMin,
			DeliveryDaysMax: fee.DeliveryDaysMax,
			IsActive:        true,
			DisplayOrder:    fee.DisplayOrder,
		}); err != nil {
			return fmt.Errorf("seed rush fee %s/%s: %w", fee.PlanSlug, fee.TimelineID, err)
		}
	}

	s.log.Info("catalog seeded",
		"plans", len(seed.Plans),
		"addons", len(seed.Addons),
		"rushFees", len(seed.RushFees))
	return nil
}
