// Package performance benchmarks catalog loading and queries over generated catalogs
//go:build performance
// +build performance

package performance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alchemorsel/recipebook/internal/application/catalog"
	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/flatfile"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebook/test/testutils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Performance test configuration
const (
	SmallDataset  = 100
	MediumDataset = 1000
	LargeDataset  = 10000

	// MaxLoadTime bounds parsing LargeDataset records
	MaxLoadTime = 500 * time.Millisecond
)

var datasets = []int{SmallDataset, MediumDataset, LargeDataset}

func loadedCatalog(b *testing.B, n int) (*catalog.Service, *testutils.RecipeFactory) {
	b.Helper()

	factory := testutils.NewRecipeFactory(42)
	svc := catalog.NewService(memory.NewRecordStore(factory.CreateRecords(n)...), zap.NewNop())
	_, err := svc.Load(context.Background())
	require.NoError(b, err)
	return svc, factory
}

func BenchmarkParseRecord(b *testing.B) {
	line := "Pancakes,3,flour,egg,milk,450,Breakfast"

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := recipe.ParseRecord(line); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoad(b *testing.B) {
	for _, n := range datasets {
		records := testutils.NewRecipeFactory(42).CreateRecords(n)

		b.Run(fmt.Sprintf("Memory/%d", n), func(b *testing.B) {
			svc := catalog.NewService(memory.NewRecordStore(records...), zap.NewNop())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.Load(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})

		b.Run(fmt.Sprintf("FlatFile/%d", n), func(b *testing.B) {
			path := filepath.Join(b.TempDir(), "recipes.txt")
			require.NoError(b, os.WriteFile(path, []byte(strings.Join(records, "\n")+"\n"), 0o644))

			svc := catalog.NewService(flatfile.NewStore(path, zap.NewNop()), zap.NewNop())
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.Load(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQueries(b *testing.B) {
	for _, n := range datasets {
		svc, factory := loadedCatalog(b, n)
		ingredient := factory.Ingredient()
		tokens := factory.Ingredients(2, 4)
		all := svc.All()
		name := all[len(all)-1].Name

		b.Run(fmt.Sprintf("ByIngredient/%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				svc.FindByIngredient(ingredient)
			}
		})

		b.Run(fmt.Sprintf("ByIngredientSet/%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				svc.FindByIngredientSet(tokens)
			}
		})

		b.Run(fmt.Sprintf("ByCalorieRange/%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				svc.FindByCalorieRangeAndCategory(200, 600, testutils.Categories[0])
			}
		})

		b.Run(fmt.Sprintf("ByName/%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				svc.FindByName(name)
			}
		})

		b.Run(fmt.Sprintf("SortByCalories/%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				svc.SortByCalories()
			}
		})

		b.Run(fmt.Sprintf("HealthierAlternative/%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, _, err := svc.HealthierAlternative(name); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkConcurrentReads(b *testing.B) {
	svc, factory := loadedCatalog(b, MediumDataset)
	ingredient := factory.Ingredient()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			svc.FindByIngredient(ingredient)
			if _, err := svc.RandomSuggestion(); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func TestLargeCatalogLoadTime(t *testing.T) {
	records := testutils.NewRecipeFactory(7).CreateRecords(LargeDataset)
	svc := catalog.NewService(memory.NewRecordStore(records...), zap.NewNop())

	var loaded int
	elapsed := testutils.MeasureTime(func() {
		report, err := svc.Load(context.Background())
		require.NoError(t, err)
		loaded = report.Loaded
	})

	require.Equal(t, LargeDataset, loaded)
	require.Less(t, elapsed, MaxLoadTime, "loading %d records took %v", LargeDataset, elapsed)
}
