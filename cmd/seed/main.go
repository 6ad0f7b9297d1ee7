package main

import (
	"context"
	"os"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const avatarBase = "https://headzaintready.com/wp-content/uploads/"

var barbers = []models.Barber{
	{Name: "Louie Live", Slug: "louie-live", AvatarURL: avatarBase + "2023/02/LOUIELIVE.jpg"},
	{Name: "Johan", Slug: "johan", AvatarURL: avatarBase + "2025/04/JOHAN.jpg"},
	{Name: "King Rome", Slug: "king-rome", AvatarURL: avatarBase + "2023/02/ROME-1.jpg"},
	{Name: "Jesus", Slug: "jesus", AvatarURL: avatarBase + "2023/02/JESUS.jpg"},
	{Name: "Angel", Slug: "angel", AvatarURL: avatarBase + "2023/02/ANGEL.jpg"},
	{Name: "Victor", Slug: "victor", AvatarURL: avatarBase + "2023/02/VICTOR.jpg"},
	{Name: "Liseth", Slug: "liseth", AvatarURL: avatarBase + "2025/04/Liseth.jpg"},
	{Name: "Carlos", Slug: "carlos", AvatarURL: avatarBase + "2023/02/CARLOS.jpg"},
}

var services = []models.Service{
	{Name: "Kids Haircut", Slug: "kids-haircut", PriceCents: 3000, Category: "kids"},
	{Name: "Shape Up", Slug: "shape-up", PriceCents: 2000, Category: "adults"},
	{Name: "Shape Up & Beard", Slug: "shape-up-beard", PriceCents: 3000, Category: "adults"},
	{Name: "Senior Citizens", Slug: "senior-citizens", PriceCents: 3000, Category: "seniors"},
	{Name: "Haircut Adult", Slug: "haircut-adult", PriceCents: 4000, Category: "adults"},
	{Name: "Haircut & Beard", Slug: "haircut-beard", PriceCents: 5000, Category: "adults"},
	{Name: "Haircut / Beard / Hot Towel", Slug: "haircut-beard-hot-towel", PriceCents: 5500, Category: "adults"},
	{Name: "Enhancement beard color black/brown", Slug: "enhancement-beard-color", PriceCents: 0, Category: "adults"},
	{Name: "Braids", Slug: "braids", PriceCents: 5000, Category: "adults"},
}

// seed inserts the shop roster and price list into empty tables. Tables
// that already hold rows are left alone so the command is safe to rerun.
func seed(ctx context.Context, repo catalog.Repository) (int, int, error) {
	var addedBarbers, addedServices int

	existing, err := repo.ListBarbers(ctx, true)
	if err != nil {
		return 0, 0, err
	}
	if len(existing) == 0 {
		for i, b := range barbers {
			b.SortOrder = i
			b.IsActive = true
			if err := repo.CreateBarber(ctx, &b); err != nil {
				return addedBarbers, 0, err
			}
			addedBarbers++
		}
	}

	existingServices, err := repo.ListServices(ctx, true)
	if err != nil {
		return addedBarbers, 0, err
	}
	if len(existingServices) == 0 {
		for i, s := range services {
			s.SortOrder = i
			s.DurationMinutes = 30
			s.IsActive = true
			if err := repo.CreateService(ctx, &s); err != nil {
				return addedBarbers, addedServices, err
			}
			addedServices++
		}
	}
	return addedBarbers, addedServices, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "development").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)
	ctx := context.Background()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	if err := dbpkg.Migrate(ctx, db); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	nb, ns, err := seed(ctx, infraRepo.NewCatalogGormRepository(db))
	if err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("seed complete", "barbers", nb, "services", ns)
}
