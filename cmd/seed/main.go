// Command seed fills an empty database with sample market prices and a demo
// farmer who owns one listing and one community question.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"krishilink/internal/auth"
	intconfig "krishilink/internal/config"
	"krishilink/internal/db"
	"krishilink/internal/domain"
	"krishilink/internal/domain/models"
	"krishilink/internal/events"
	"krishilink/internal/repositories"
	"krishilink/internal/services"
	"krishilink/internal/utils"
)

const (
	demoEmail    = "demo.farmer@krishilink.in"
	demoPassword = "demo1234"
)

type market struct {
	name, state, district string
}

var markets = []market{
	{"Khanna Mandi", "Punjab", "Ludhiana"},
	{"Karnal Mandi", "Haryana", "Karnal"},
	{"Indore Mandi", "Madhya Pradesh", "Indore"},
	{"Nashik Mandi", "Maharashtra", "Nashik"},
}

var crops = []struct {
	name  string
	modal float64
}{
	{"wheat", 2275},
	{"rice", 3100},
	{"maize", 2090},
	{"onion", 1800},
	{"tomato", 1500},
	{"cotton", 6620},
}

func main() {
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}
	conn, err := intconfig.ConnectDB(env.DBDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer intconfig.CloseDB()

	ctx := utils.WithRequestID(context.Background(), "seed")
	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatalf("schema: %v", err)
	}

	users := repositories.UserRepository{DB: conn}
	authSvc := services.AuthService{Users: users, Hasher: auth.NewHasher(env.BcryptCost)}
	farmer, err := demoFarmer(ctx, authSvc)
	if err != nil {
		log.Fatalf("demo farmer: %v", err)
	}
	p := services.Principal(farmer)

	if err := seedPrices(ctx, services.MarketService{Prices: repositories.MarketPriceRepository{DB: conn}}); err != nil {
		log.Fatalf("market prices: %v", err)
	}

	listings := services.ListingService{Listings: repositories.ListingRepository{DB: conn}, Users: users, Events: events.Noop{}}
	price := 2300.0
	if _, err := listings.Create(ctx, p, models.ListingInput{
		CropType:      "Wheat",
		Variety:       "HD-2967",
		Quantity:      50,
		Unit:          "quintal",
		Quality:       "Grade A",
		ExpectedPrice: &price,
		Description:   "Freshly harvested, machine cleaned.",
		Location:      farmer.Location,
	}, nil); err != nil {
		log.Fatalf("listing: %v", err)
	}

	community := services.CommunityService{Questions: repositories.QuestionRepository{DB: conn}, Events: events.Noop{}}
	if _, err := community.Ask(ctx, p, models.QuestionInput{
		Title:    "Best time to sow wheat in Punjab?",
		Content:  "Planning the rabi crop this year. When should sowing start for the best yield?",
		Category: "crops",
		Tags:     []string{"wheat", "sowing", "punjab"},
	}); err != nil {
		log.Fatalf("question: %v", err)
	}

	log.Printf("seed complete: login with %s / %s", demoEmail, demoPassword)
}

func demoFarmer(ctx context.Context, svc services.AuthService) (*models.User, error) {
	u, err := svc.Register(ctx, models.RegisterInput{
		Name:      "Demo Farmer",
		Username:  "demofarmer",
		Email:     demoEmail,
		Password:  demoPassword,
		Phone:     "9876543210",
		Role:      domain.RoleFarmer,
		Location:  models.Location{State: "Punjab", District: "Ludhiana", Village: "Khanna"},
		FarmSize:  "5 acres",
		CropTypes: []string{"wheat", "rice"},
	})
	if domain.IsConflict(err) {
		return svc.Login(ctx, models.LoginInput{Email: demoEmail, Password: demoPassword})
	}
	return u, err
}

// seedPrices writes 30 days of prices for every crop in every market. The
// modal price drifts a little per day so trends have a shape.
func seedPrices(ctx context.Context, svc services.MarketService) error {
	today := utils.StartOfDay(time.Now())
	count := 0
	for day := 29; day >= 0; day-- {
		date := today.AddDate(0, 0, -day)
		for mi, m := range markets {
			for ci, c := range crops {
				drift := float64((day*7+mi*3+ci*5)%21-10) / 100
				modal := c.modal * (1 + drift)
				_, err := svc.Create(ctx, models.MarketPriceInput{
					Crop:     c.name,
					Market:   m.name,
					State:    m.state,
					District: m.district,
					Price:    models.PriceRange{Min: modal * 0.92, Max: modal * 1.08, Modal: modal},
					Date:     date,
					Source:   "seed",
				})
				if err != nil {
					return fmt.Errorf("%s at %s: %w", c.name, m.name, err)
				}
				count++
			}
		}
	}
	log.Printf("seeded %d market prices", count)
	return nil
}
