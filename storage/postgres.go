package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eladsnd/cardsAgainstSoogShell/domain"
)

// PostgresRepo persists custom decks. The game engine only ever sees
// read-only snapshots of what is stored here, fetched at startGame time.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// CustomDecks implements game.DeckSource.
func (r *PostgresRepo) CustomDecks(ctx context.Context) (map[string]domain.Pack, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, name, prompts, answers FROM decks")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	decks := make(map[string]domain.Pack)
	for rows.Next() {
		pack, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks[pack.ID] = pack
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return decks, nil
}

func (r *PostgresRepo) GetDeck(ctx context.Context, id string) (domain.Pack, error) {
	row := r.pool.QueryRow(ctx, "SELECT id, name, prompts, answers FROM decks WHERE id = $1", id)
	pack, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Pack{}, domain.ErrDeckNotFound
		}
		return domain.Pack{}, err
	}
	return pack, nil
}

// SaveDeck upserts a deck, de-duplicating its cards by text first.
func (r *PostgresRepo) SaveDeck(ctx context.Context, pack domain.Pack) error {
	prompts, err := json.Marshal(dedupeByText(pack.Prompts))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	answers, err := json.Marshal(dedupeByText(pack.Answers))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO decks(id, name, prompts, answers)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $2, prompts = $3, answers = $4`,
		pack.ID, pack.Name, prompts, answers)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}

func (r *PostgresRepo) DeleteDeck(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM decks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDeckNotFound
	}
	return nil
}

func scanDeck(row pgx.Row) (domain.Pack, error) {
	var pack domain.Pack
	var prompts, answers []byte

	if err := row.Scan(&pack.ID, &pack.Name, &prompts, &answers); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Pack{}, err
		}
		return domain.Pack{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if err := json.Unmarshal(prompts, &pack.Prompts); err != nil {
		return domain.Pack{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if err := json.Unmarshal(answers, &pack.Answers); err != nil {
		return domain.Pack{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return pack, nil
}

func dedupeByText(cards []domain.Card) []domain.Card {
	seen := make(map[string]bool, len(cards))
	unique := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if seen[card.Text] {
			continue
		}
		seen[card.Text] = true
		unique = append(unique, card)
	}
	if unique == nil {
		unique = []domain.Card{}
	}
	return unique
}
