package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/asaskevich/govalidator"
	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/db"
	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ingredientEntry is one row of the ingredients YAML file.
type ingredientEntry struct {
	Name            string `yaml:"name"`
	MeasurementUnit string `yaml:"measurement_unit"`
}

// tagEntry is one row of the tags YAML file.
type tagEntry struct {
	Name  string `yaml:"name"`
	Slug  string `yaml:"slug"`
	Color string `yaml:"color"`
}

// Seeds the ingredient and tag reference tables from YAML files. Reruns
// skip rows that already exist.
func main() {
	ingredientsPath := flag.String("ingredients", "", "path to ingredients YAML file")
	tagsPath := flag.String("tags", "", "path to tags YAML file")
	flag.Parse()

	logger.Init(true)
	defer logger.Sync()

	if *ingredientsPath == "" && *tagsPath == "" {
		logger.Get().Fatal("nothing to import: pass -ingredients and/or -tags")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	}

	database, err := db.New(cfg)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := database.DB()
	if err != nil {
		logger.Get().Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if *ingredientsPath != "" {
		n, err := importIngredients(repository.NewIngredientRepository(database), *ingredientsPath)
		if err != nil {
			logger.Get().Fatal("ingredient import failed", zap.Error(err))
		}
		logger.Get().Info("ingredients imported", zap.Int("count", n), zap.String("file", *ingredientsPath))
	}

	if *tagsPath != "" {
		n, err := importTags(repository.NewTagRepository(database), *tagsPath)
		if err != nil {
			logger.Get().Fatal("tag import failed", zap.Error(err))
		}
		logger.Get().Info("tags imported", zap.Int("count", n), zap.String("file", *tagsPath))
	}
}

// importIngredients reads and validates an ingredients YAML file and
// bulk-inserts its rows.
func importIngredients(repo repository.IngredientRepo, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read ingredients file: %w", err)
	}

	var entries []ingredientEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse ingredients YAML: %w", err)
	}

	ingredients := make([]models.Ingredient, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" || e.MeasurementUnit == "" {
			return 0, fmt.Errorf("ingredient entry %d: name and measurement_unit are required", i)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:            e.Name,
			MeasurementUnit: e.MeasurementUnit,
		})
	}

	if err := repo.CreateIngredients(ingredients); err != nil {
		return 0, err
	}
	return len(ingredients), nil
}

// importTags reads and validates a tags YAML file and bulk-inserts its rows.
func importTags(repo repository.TagRepo, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read tags file: %w", err)
	}

	var entries []tagEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("failed to parse tags YAML: %w", err)
	}

	tags := make([]models.Tag, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" || e.Slug == "" || e.Color == "" {
			return 0, fmt.Errorf("tag entry %d: name, slug and color are required", i)
		}
		// IsHexcolor also admits the short #RGB and bare forms; tag
		// colors are stored as #RRGGBB only.
		if len(e.Color) != 7 || !govalidator.IsHexcolor(e.Color) {
			return 0, fmt.Errorf("tag entry %d: color %q is not a #RRGGBB hex color", i, e.Color)
		}
		tags = append(tags, models.Tag{
			Name:  e.Name,
			Slug:  e.Slug,
			Color: e.Color,
		})
	}

	if err := repo.CreateTags(tags); err != nil {
		return 0, err
	}
	return len(tags), nil
}
