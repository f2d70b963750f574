package main

import (
	"github.com/loomcart/internal/config"
	"github.com/loomcart/internal/logger"
	"github.com/loomcart/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 商品目录种子数据
	products := []models.Product{
		{
			Name:     "Classic Cotton Tee",
			Image:    "/images/classic-cotton-tee.jpg",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(19.90)),
			Sizes:    models.StringArray{"S", "M", "L", "XL"},
			Colors:   models.StringArray{"white", "black", "navy"},
			IsActive: true,
		},
		{
			Name:     "Oversized Hoodie",
			Image:    "/images/oversized-hoodie.jpg",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(49.50)),
			Sizes:    models.StringArray{"M", "L", "XL"},
			Colors:   models.StringArray{"grey", "black"},
			IsActive: true,
		},
		{
			Name:     "Relaxed Fit Jeans",
			Image:    "/images/relaxed-fit-jeans.jpg",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(59.00)),
			Sizes:    models.StringArray{"28", "30", "32", "34"},
			Colors:   models.StringArray{"indigo", "black"},
			IsActive: true,
		},
		{
			Name:     "Canvas Tote Bag",
			Image:    "/images/canvas-tote-bag.jpg",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(14.00)),
			Sizes:    models.StringArray{"one-size"},
			Colors:   models.StringArray{"natural", "olive"},
			IsActive: true,
		},
		{
			Name:     "Wool Beanie",
			Image:    "/images/wool-beanie.jpg",
			Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
			Sizes:    models.StringArray{"one-size"},
			Colors:   models.StringArray{"black", "cream", "forest"},
			IsActive: false,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			} else {
				stdLog.Printf("Created product: %s", product.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Name)
		}
	}

	stdLog.Println("Seed finished")
}
