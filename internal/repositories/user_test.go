package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		username VARCHAR(50) NOT NULL UNIQUE,
		hashed_password VARCHAR(255) NOT NULL,
		confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		avatar_url VARCHAR(255),
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(100) NOT NULL UNIQUE,
		phone VARCHAR(20) NOT NULL UNIQUE,
		birthday DATE NOT NULL,
		additional_data VARCHAR(500),
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	user, err := repo.Save(ctx, "alice@example.com", "alice", "digest123")
	assert.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "digest123", user.HashedPassword)
	assert.False(t, user.Confirmed)
	assert.Equal(t, "user", user.Role)
	assert.Nil(t, user.AvatarURL)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := repo.Save(ctx, "alice@example.com", "alice2", "digest123")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Save(ctx, "alice2@example.com", "alice", "digest123")
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestUserReadRepository_Lookups(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, "bob@example.com", "bob", "digest")
	assert.NoError(t, err)

	t.Run("ByID", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, saved.ID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "bob", user.Username)
	})

	t.Run("ByEmail", func(t *testing.T) {
		user, err := readRepo.GetByEmail(ctx, "bob@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, saved.ID, user.ID)
	})

	t.Run("ByUsername", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "bob")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, saved.ID, user.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "nonexistent")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserWriteRepository_Update(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, "carol@example.com", "carol", "digest")
	assert.NoError(t, err)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		username := "caroline"
		updated, err := writeRepo.Update(ctx, saved.ID, &username, nil, nil)
		assert.NoError(t, err)
		assert.NotNil(t, updated)
		assert.Equal(t, "caroline", updated.Username)
		assert.Equal(t, "carol@example.com", updated.Email)
	})

	t.Run("avatar url", func(t *testing.T) {
		url := "https://img.example.com/avatars/caroline"
		updated, err := writeRepo.Update(ctx, saved.ID, nil, nil, &url)
		assert.NoError(t, err)
		assert.NotNil(t, updated.AvatarURL)
		assert.Equal(t, url, *updated.AvatarURL)
	})

	t.Run("missing user", func(t *testing.T) {
		username := "nobody"
		updated, err := writeRepo.Update(ctx, 99999, &username, nil, nil)
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("conflicting email", func(t *testing.T) {
		_, err := writeRepo.Save(ctx, "dave@example.com", "dave", "digest")
		assert.NoError(t, err)

		email := "dave@example.com"
		_, err = writeRepo.Update(ctx, saved.ID, nil, &email, nil)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestUserWriteRepository_ConfirmEmailAndPassword(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, "eve@example.com", "eve", "digest")
	assert.NoError(t, err)
	assert.False(t, saved.Confirmed)

	err = writeRepo.ConfirmEmail(ctx, "eve@example.com")
	assert.NoError(t, err)

	user, err := readRepo.GetByEmail(ctx, "eve@example.com")
	assert.NoError(t, err)
	assert.True(t, user.Confirmed)

	err = writeRepo.UpdatePassword(ctx, saved.ID, "newdigest")
	assert.NoError(t, err)

	user, err = readRepo.GetByID(ctx, saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, "newdigest", user.HashedPassword)
}
