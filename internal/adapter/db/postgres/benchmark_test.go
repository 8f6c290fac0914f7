package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func benchmarkList(b *testing.B, rows int) {
	db := setupTestDB(b)
	require.NoError(b, db.AutoMigrate(&UserSchema{}))

	batch := make([]UserSchema, rows)
	for i := range batch {
		batch[i] = UserSchema{UserName: fmt.Sprintf("user-%d", i)}
	}
	if rows > 0 {
		require.NoError(b, db.CreateInBatches(&batch, 500).Error)
	}

	repo := NewUserRepoPG(NewGormQuerier(db))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		users, err := repo.List(ctx)
		if err != nil {
			b.Fatal(err)
		}
		if len(users) != rows {
			b.Fatalf("got %d users, want %d", len(users), rows)
		}
	}
}

func BenchmarkUserRepoPG_List_Empty(b *testing.B) { benchmarkList(b, 0) }
func BenchmarkUserRepoPG_List_100(b *testing.B)   { benchmarkList(b, 100) }
func BenchmarkUserRepoPG_List_10k(b *testing.B)   { benchmarkList(b, 10_000) }

func BenchmarkUserRepoPG_List_Parallel(b *testing.B) {
	db := setupTestDB(b)
	require.NoError(b, db.AutoMigrate(&UserSchema{}))
	batch := make([]UserSchema, 100)
	for i := range batch {
		batch[i] = UserSchema{UserName: fmt.Sprintf("user-%d", i)}
	}
	require.NoError(b, db.Create(&batch).Error)

	repo := NewUserRepoPG(NewGormQuerier(db))

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := repo.List(ctx); err != nil {
				b.Error(err)
				return
			}
		}
	})
}
