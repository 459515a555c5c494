package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/petcarehub/petcare-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func sqlmockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "pgx"), mock
}

func strptr(s string) *string { return &s }

func TestLostPetWriteRepository_Save(t *testing.T) {
	t.Run("post and images commit together", func(t *testing.T) {
		db, mock := sqlmockDB(t)
		repo := NewLostPetWriteRepository(db)

		created := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO lost_pet_posts").
			WithArgs("Lost", "TAG-1", 24, "Main street", "Dog",
				nil, nil, nil, "Brown labrador", nil, nil, nil, nil, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))
		mock.ExpectExec("INSERT INTO lost_pet_images").
			WithArgs(int64(42), "/uploads/lostpets/a.jpg").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO lost_pet_images").
			WithArgs(int64(42), "/uploads/lostpets/b.jpg").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		post := &models.LostPetPostDB{
			PostType:    "Lost",
			TagID:       "TAG-1",
			AgeMonths:   24,
			LastSeen:    "Main street",
			PetType:     "Dog",
			Description: "Brown labrador",
		}
		err := repo.Save(context.Background(), post,
			[]string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.jpg"})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), post.ID)
		assert.Equal(t, created, post.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("image failure rolls the post back", func(t *testing.T) {
		db, mock := sqlmockDB(t)
		repo := NewLostPetWriteRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO lost_pet_posts").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))
		mock.ExpectExec("INSERT INTO lost_pet_images").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		post := &models.LostPetPostDB{
			PostType:    "Lost",
			TagID:       "TAG-1",
			AgeMonths:   24,
			LastSeen:    "Main street",
			PetType:     "Dog",
			Description: "Brown labrador",
		}
		err := repo.Save(context.Background(), post, []string{"/uploads/lostpets/a.jpg"})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("post insert failure rolls back", func(t *testing.T) {
		db, mock := sqlmockDB(t)
		repo := NewLostPetWriteRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO lost_pet_posts").
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.Save(context.Background(), &models.LostPetPostDB{}, nil)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func setupLostPetPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	db, teardown := setupUserPostgresContainer(t)

	schema := `
	CREATE TABLE IF NOT EXISTS lost_pet_posts (
		id BIGSERIAL PRIMARY KEY,
		post_type VARCHAR(10) NOT NULL,
		tag_id VARCHAR(50) NOT NULL,
		age_months INT NOT NULL DEFAULT 0,
		last_seen VARCHAR(120) NOT NULL,
		pet_type VARCHAR(30) NOT NULL,
		pet_name VARCHAR(60),
		gender VARCHAR(15),
		color VARCHAR(30),
		description VARCHAR(500) NOT NULL,
		city VARCHAR(40),
		area VARCHAR(40),
		contact_phone VARCHAR(40),
		reward VARCHAR(40),
		lost_date VARCHAR(25),
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS lost_pet_images (
		id BIGSERIAL PRIMARY KEY,
		lost_pet_post_id BIGINT NOT NULL REFERENCES lost_pet_posts(id) ON DELETE CASCADE,
		url VARCHAR(255) NOT NULL
	);
	`
	_, err := db.Exec(schema)
	assert.NoError(t, err)

	return db, teardown
}

func TestLostPetRepositories_Postgres(t *testing.T) {
	db, teardown := setupLostPetPostgresContainer(t)
	defer teardown()

	writeRepo := NewLostPetWriteRepository(db)
	readRepo := NewLostPetReadRepository(db)
	ctx := context.Background()

	first := &models.LostPetPostDB{
		PostType:    "Lost",
		TagID:       "TAG-SHARED",
		AgeMonths:   24,
		LastSeen:    "Main street",
		PetType:     "Dog",
		PetName:     strptr("Rex"),
		Description: "Brown labrador",
		City:        strptr("Springfield"),
	}
	err := writeRepo.Save(ctx, first, []string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.jpg"})
	assert.NoError(t, err)

	second := &models.LostPetPostDB{
		PostType:    "Found",
		TagID:       "TAG-SHARED",
		LastSeen:    "River park",
		PetType:     "Dog",
		Description: "Found near the bridge",
	}
	err = writeRepo.Save(ctx, second, nil)
	assert.NoError(t, err)

	t.Run("ListAll newest first", func(t *testing.T) {
		listings, err := readRepo.ListAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, listings, 2)
		assert.Equal(t, second.ID, listings[0].ID)
		assert.Equal(t, first.ID, listings[1].ID)
		assert.Equal(t, []string{}, listings[0].ImageURLs)
		assert.Equal(t, []string{"/uploads/lostpets/a.jpg", "/uploads/lostpets/b.jpg"}, listings[1].ImageURLs)
	})

	t.Run("GetLatestByTagID returns the newest listing", func(t *testing.T) {
		listing, err := readRepo.GetLatestByTagID(ctx, "TAG-SHARED")
		assert.NoError(t, err)
		assert.NotNil(t, listing)
		assert.Equal(t, second.ID, listing.ID)
		assert.Equal(t, "Found", listing.PostType)
	})

	t.Run("GetLatestByTagID unknown tag", func(t *testing.T) {
		listing, err := readRepo.GetLatestByTagID(ctx, "TAG-NOPE")
		assert.NoError(t, err)
		assert.Nil(t, listing)
	})
}
