package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"loft-shop/application/serviceimpl"
	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/infrastructure/postgres"
	"loft-shop/infrastructure/redis"
	"loft-shop/pkg/config"
)

// seed ข้อมูลตั้งต้น: region/city สำหรับจัดส่ง, หมวด + สินค้าตัวอย่าง, admin user
// รันซ้ำได้ ข้อมูลที่มีอยู่แล้วจะถูกข้าม

type seedProduct struct {
	Title     string
	Slug      string
	Price     string
	ColorName string
	ColorCode string
	Discount  int
	Model     string
}

type seedCategory struct {
	Title    string
	Slug     string
	Children []seedCategory
	Products []seedProduct
}

var regions = map[string][]string{
	"Moscow Oblast":         {"Moscow", "Khimki", "Podolsk"},
	"Leningrad Oblast":      {"Saint Petersburg", "Gatchina"},
	"Sverdlovsk Oblast":     {"Yekaterinburg", "Nizhny Tagil"},
	"Novosibirsk Oblast":    {"Novosibirsk"},
	"Republic of Tatarstan": {"Kazan", "Naberezhnye Chelny"},
}

var catalog = []seedCategory{
	{
		Title: "Living Room", Slug: "living-room",
		Children: []seedCategory{
			{Title: "Sofas", Slug: "sofas", Products: []seedProduct{
				{Title: "Oslo Sofa", Slug: "oslo-sofa", Price: "45990", ColorName: "Grey", ColorCode: "#808080", Model: "Oslo"},
				{Title: "Oslo Corner Sofa", Slug: "oslo-corner-sofa", Price: "67990", ColorName: "Blue", ColorCode: "#1f3a93", Model: "Oslo", Discount: 15},
			}},
			{Title: "Armchairs", Slug: "armchairs", Products: []seedProduct{
				{Title: "Bergen Armchair", Slug: "bergen-armchair", Price: "18990", ColorName: "Beige", ColorCode: "#f5f5dc", Model: "Bergen"},
			}},
		},
	},
	{
		Title: "Bedroom", Slug: "bedroom",
		Children: []seedCategory{
			{Title: "Beds", Slug: "beds", Products: []seedProduct{
				{Title: "King Bed Loft", Slug: "king-bed-loft", Price: "54990", ColorName: "Walnut", ColorCode: "#773f1a", Model: "Loft", Discount: 10},
				{Title: "Single Bed Loft", Slug: "single-bed-loft", Price: "24990", ColorName: "Oak", ColorCode: "#c8a165", Model: "Loft"},
			}},
		},
	},
	{
		Title: "Kitchen", Slug: "kitchen",
		Products: []seedProduct{
			{Title: "Bar Stool", Slug: "bar-stool", Price: "4990", ColorName: "Black", ColorCode: "#000000"},
			{Title: "Dining Table Nord", Slug: "dining-table-nord", Price: "29990", ColorName: "Oak", ColorCode: "#c8a165", Model: "Nord"},
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: "silent",
	})
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(db)
	orderRepo := postgres.NewOrderRepository(db)
	regionRepo := postgres.NewRegionRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	userRepo := postgres.NewUserRepository(db)

	customers := serviceimpl.NewCustomerService(postgres.NewCustomerRepository(db))
	carts := serviceimpl.NewCartService(uow, orderRepo, postgres.NewProductRepository(db), customers, redis.NewLocalLocker(), nil, 0)
	checkout := serviceimpl.NewCheckoutService(uow, orderRepo, postgres.NewShippingRepository(db), regionRepo, carts, nil)
	catalogSvc := serviceimpl.NewCatalogService(categoryRepo, postgres.NewProductRepository(db), postgres.NewProductModelRepository(db), nil, 0)
	users := serviceimpl.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)

	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("  Loft seed")
	fmt.Println("═══════════════════════════════════════════════════════════════")

	seedRegions(ctx, checkout, regionRepo)
	seedCatalog(ctx, catalogSvc, categoryRepo)
	seedAdmin(ctx, users, userRepo)

	fmt.Println("\n✓ Seed complete")
}

func seedRegions(ctx context.Context, checkout services.CheckoutService, regionRepo repositories.RegionRepository) {
	existing, err := regionRepo.ListWithCities(ctx)
	if err != nil {
		log.Fatalf("Failed to list regions: %v", err)
	}
	known := make(map[string]*models.Region, len(existing))
	for _, r := range existing {
		known[r.Title] = r
	}

	for title, cities := range regions {
		region, ok := known[title]
		if !ok {
			region, err = checkout.CreateRegion(ctx, &dto.CreateRegionRequest{Title: title})
			if err != nil {
				log.Fatalf("Failed to create region %s: %v", title, err)
			}
			fmt.Printf("✓ Region %s\n", title)
		}

		have := make(map[string]bool, len(region.Cities))
		for _, c := range region.Cities {
			have[c.Title] = true
		}
		for _, city := range cities {
			if have[city] {
				continue
			}
			if _, err := checkout.CreateCity(ctx, &dto.CreateCityRequest{Title: city, RegionID: region.ID}); err != nil {
				log.Fatalf("Failed to create city %s: %v", city, err)
			}
			fmt.Printf("  ✓ City %s\n", city)
		}
	}
}

func seedCatalog(ctx context.Context, catalogSvc services.CatalogService, categoryRepo repositories.CategoryRepository) {
	modelIDs := map[string]*models.ProductModel{}
	existing, err := catalogSvc.ListProductModels(ctx)
	if err != nil {
		log.Fatalf("Failed to list models: %v", err)
	}
	for _, m := range existing {
		modelIDs[m.Title] = m
	}

	modelFor := func(title string) *models.ProductModel {
		if title == "" {
			return nil
		}
		if m, ok := modelIDs[title]; ok {
			return m
		}
		m, err := catalogSvc.CreateProductModel(ctx, &dto.CreateProductModelRequest{Title: title})
		if err != nil {
			log.Fatalf("Failed to create model %s: %v", title, err)
		}
		modelIDs[title] = m
		return m
	}

	var walk func(nodes []seedCategory, parent *models.Category)
	walk = func(nodes []seedCategory, parent *models.Category) {
		for _, node := range nodes {
			req := &dto.CreateCategoryRequest{Title: node.Title, Slug: node.Slug}
			if parent != nil {
				req.ParentID = &parent.ID
			}
			category, err := catalogSvc.CreateCategory(ctx, req)
			if errors.Is(err, services.ErrConflict) {
				category, err = categoryRepo.GetBySlug(ctx, node.Slug)
			}
			if err != nil {
				log.Fatalf("Failed to seed category %s: %v", node.Slug, err)
			}
			fmt.Printf("✓ Category %s\n", category.Slug)

			for _, p := range node.Products {
				req := &dto.CreateProductRequest{
					Title:      p.Title,
					Slug:       p.Slug,
					Price:      decimal.RequireFromString(p.Price),
					Quantity:   10,
					ColorName:  p.ColorName,
					ColorCode:  p.ColorCode,
					CategoryID: category.ID,
				}
				if p.Discount > 0 {
					discount := p.Discount
					req.Discount = &discount
				}
				if m := modelFor(p.Model); m != nil {
					req.ModelID = &m.ID
				}

				_, err := catalogSvc.CreateProduct(ctx, req)
				switch {
				case errors.Is(err, services.ErrConflict):
					fmt.Printf("  - Product %s exists\n", p.Slug)
				case err != nil:
					log.Fatalf("Failed to create product %s: %v", p.Slug, err)
				default:
					fmt.Printf("  ✓ Product %s\n", p.Slug)
				}
			}

			walk(node.Children, category)
		}
	}
	walk(catalog, nil)
}

// seedAdmin สร้าง admin จาก SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD (ไม่ตั้ง = ข้าม)
func seedAdmin(ctx context.Context, users services.UserService, userRepo repositories.UserRepository) {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		fmt.Println("- Admin skipped (SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set)")
		return
	}

	_, user, err := users.Register(ctx, &dto.RegisterRequest{
		Email:     email,
		Username:  "admin",
		Password:  password,
		FirstName: "Loft",
		LastName:  "Admin",
	})
	if errors.Is(err, services.ErrConflict) {
		user, err = userRepo.GetByEmail(ctx, email)
	}
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if user.Role != models.RoleAdmin {
		user.Role = models.RoleAdmin
		if err := userRepo.Update(ctx, user.ID, user); err != nil {
			log.Fatalf("Failed to promote admin: %v", err)
		}
	}
	fmt.Printf("✓ Admin %s\n", user.Email)
}
