package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/atelier116/fashionweek-api/internal/models"
)

// ExternalAccountRepository handles persistence for client companies.
type ExternalAccountRepository struct {
	db *sqlx.DB
}

// NewExternalAccountRepository instantiates an external account repository.
func NewExternalAccountRepository(db *sqlx.DB) *ExternalAccountRepository {
	return &ExternalAccountRepository{db: db}
}

// List returns external accounts with their market and client
// associations attached.
func (r *ExternalAccountRepository) List(ctx context.Context, filter models.ExternalAccountFilter) ([]models.ExternalAccount, int, error) {
	base := "FROM external_accounts ea WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("ea.label ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.MarketID != nil {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM external_account_markets eam WHERE eam.external_account_id = ea.id AND eam.market_id = $%d)", len(args)+1))
		args = append(args, *filter.MarketID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT ea.id, ea.label, ea.created_at, ea.updated_at %s ORDER BY ea.label ASC LIMIT %d OFFSET %d", base, size, offset)

	var accounts []models.ExternalAccount
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list external accounts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count external accounts: %w", err)
	}

	if err := r.attachAssociations(ctx, accounts); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// FindByID loads a single external account with associations.
func (r *ExternalAccountRepository) FindByID(ctx context.Context, id int64) (*models.ExternalAccount, error) {
	const query = `SELECT id, label, created_at, updated_at FROM external_accounts WHERE id = $1`
	var account models.ExternalAccount
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	accounts := []models.ExternalAccount{account}
	if err := r.attachAssociations(ctx, accounts); err != nil {
		return nil, err
	}
	return &accounts[0], nil
}

// ListSmall returns the compact select-box shape with the first market
// label flattened in.
func (r *ExternalAccountRepository) ListSmall(ctx context.Context) ([]models.ExternalAccountSmall, error) {
	const query = `SELECT ea.id, ea.label, COALESCE(MIN(mk.label), '') AS market_label FROM external_accounts ea LEFT JOIN external_account_markets eam ON eam.external_account_id = ea.id LEFT JOIN markets mk ON mk.id = eam.market_id GROUP BY ea.id, ea.label ORDER BY ea.label ASC`
	var accounts []models.ExternalAccountSmall
	if err := r.db.SelectContext(ctx, &accounts, query); err != nil {
		return nil, fmt.Errorf("list external accounts small: %w", err)
	}
	return accounts, nil
}

// Create inserts an account and its market links.
func (r *ExternalAccountRepository) Create(ctx context.Context, account *models.ExternalAccount, marketIDs []int64) (err error) {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create external account tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.GetContext(ctx, &account.ID, `INSERT INTO external_accounts (label, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`, account.Label, account.CreatedAt, account.UpdatedAt); err != nil {
		return fmt.Errorf("create external account: %w", err)
	}

	if err = replaceAccountMarkets(ctx, tx, account.ID, marketIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create external account tx: %w", err)
	}
	return nil
}

// Update modifies an account and replaces its market links.
func (r *ExternalAccountRepository) Update(ctx context.Context, account *models.ExternalAccount, marketIDs []int64) (err error) {
	account.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update external account tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE external_accounts SET label = $2, updated_at = $3 WHERE id = $1`, account.ID, account.Label, account.UpdatedAt); err != nil {
		return fmt.Errorf("update external account: %w", err)
	}

	if marketIDs != nil {
		if err = replaceAccountMarkets(ctx, tx, account.ID, marketIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update external account tx: %w", err)
	}
	return nil
}

// Delete removes an account permanently.
func (r *ExternalAccountRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM external_accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete external account: %w", err)
	}
	return nil
}

type accountMarketRow struct {
	AccountID int64 `db:"external_account_id"`
	models.Market
}

type accountClientRow struct {
	AccountID int64 `db:"external_account_id"`
	models.UserSmall
}

func (r *ExternalAccountRepository) attachAssociations(ctx context.Context, accounts []models.ExternalAccount) error {
	if len(accounts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(accounts))
	index := make(map[int64]int, len(accounts))
	for i, account := range accounts {
		ids = append(ids, account.ID)
		index[account.ID] = i
		accounts[i].Markets = []models.Market{}
		accounts[i].Clients = []models.UserSmall{}
	}

	marketQuery, marketArgs, err := sqlx.In(`SELECT eam.external_account_id, mk.id, mk.label FROM external_account_markets eam JOIN markets mk ON mk.id = eam.market_id WHERE eam.external_account_id IN (?) ORDER BY mk.label`, ids)
	if err != nil {
		return fmt.Errorf("build account market query: %w", err)
	}
	var markets []accountMarketRow
	if err := r.db.SelectContext(ctx, &markets, r.db.Rebind(marketQuery), marketArgs...); err != nil {
		return fmt.Errorf("load account markets: %w", err)
	}
	for _, m := range markets {
		if i, ok := index[m.AccountID]; ok {
			accounts[i].Markets = append(accounts[i].Markets, m.Market)
		}
	}

	clientQuery, clientArgs, err := sqlx.In(`SELECT uea.external_account_id, u.id, u.id AS user_id, u.first_name, u.last_name, u.role_id FROM users_external_accounts uea JOIN users u ON u.id = uea.user_id WHERE uea.external_account_id IN (?) ORDER BY u.last_name`, ids)
	if err != nil {
		return fmt.Errorf("build account client query: %w", err)
	}
	var clients []accountClientRow
	if err := r.db.SelectContext(ctx, &clients, r.db.Rebind(clientQuery), clientArgs...); err != nil {
		return fmt.Errorf("load account clients: %w", err)
	}
	for _, c := range clients {
		if i, ok := index[c.AccountID]; ok {
			accounts[i].Clients = append(accounts[i].Clients, c.UserSmall)
		}
	}

	return nil
}

func replaceAccountMarkets(ctx context.Context, tx *sqlx.Tx, accountID int64, marketIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM external_account_markets WHERE external_account_id = $1`, accountID); err != nil {
		return fmt.Errorf("clear account markets: %w", err)
	}
	for _, marketID := range marketIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO external_account_markets (external_account_id, market_id) VALUES ($1, $2)`, accountID, marketID); err != nil {
			return fmt.Errorf("attach account market: %w", err)
		}
	}
	return nil
}
