package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"vetclinic/internal/models"
)

type AccountRepository interface {
	Create(acc *models.Account) error
	GetByID(id int) (*models.Account, error)
	GetByEmail(email string) (*models.Account, error)
	Update(acc *models.Account) error
	Delete(id int) error
	List(limit, offset int) ([]*models.Account, error)
	GetCount() (int, error)
	GetCountByRole(role string) (int, error)

	// одноразовые коды: одна пара колонок на каждое назначение
	SetCode(userID int, purpose models.CodePurpose, code string, expiresAt time.Time) error
	ClearCode(userID int, purpose models.CodePurpose) error
	// verified=TRUE и очистка кода — одним UPDATE
	MarkVerified(userID int) error
	// новый хэш пароля и очистка recovery-кода — одним UPDATE
	UpdatePasswordAndClearCode(userID int, passwordHash string) error

	SetActive(userID int, active bool) error
	UpdateRole(userID int, role string) error
	UpdateTelegramChat(userID int, chatID int64) error

	// журнал отправок кодов — для троттлинга повторных отправок
	RecordCodeSend(userID int, purpose models.CodePurpose, sentAt time.Time) error
	CountRecentCodeSends(userID int, purpose models.CodePurpose, since time.Time) (int, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

const accountColumns = `
	id, name, surname, email, phone, password_hash, role, active, verified,
	verification_code, verification_expires_at,
	recovery_code, recovery_expires_at,
	COALESCE(telegram_chat_id, 0), created_at
`

func (r *accountRepository) scan(row interface{ Scan(...any) error }) (*models.Account, error) {
	acc := &models.Account{}
	var vCode, rCode sql.NullString
	var vExp, rExp sql.NullTime
	err := row.Scan(
		&acc.ID, &acc.Name, &acc.Surname, &acc.Email, &acc.Phone,
		&acc.PasswordHash, &acc.Role, &acc.Active, &acc.Verified,
		&vCode, &vExp, &rCode, &rExp,
		&acc.TelegramChatID, &acc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc.VerificationCode = nullableCode(vCode, vExp)
	acc.RecoveryCode = nullableCode(rCode, rExp)
	return acc, nil
}

func nullableCode(code sql.NullString, exp sql.NullTime) models.OneShotCode {
	var c models.OneShotCode
	if code.Valid {
		v := code.String
		c.Code = &v
	}
	if exp.Valid {
		t := exp.Time
		c.ExpiresAt = &t
	}
	return c
}

func (r *accountRepository) Create(acc *models.Account) error {
	const q = `
		INSERT INTO accounts (name, surname, email, phone, password_hash, role, active, verified)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q,
		acc.Name, acc.Surname, acc.Email, acc.Phone,
		acc.PasswordHash, acc.Role, acc.Active, acc.Verified,
	).Scan(&acc.ID, &acc.CreatedAt); err != nil {
		return fmt.Errorf("account create: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(id int) (*models.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	acc, err := r.scan(r.DB.QueryRow(q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account by id: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) GetByEmail(email string) (*models.Account, error) {
	// email хранится нормализованным, но на всякий случай сравниваем без регистра
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	acc, err := r.scan(r.DB.QueryRow(q, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account by email: %w", err)
	}
	return acc, nil
}

func (r *accountRepository) Update(acc *models.Account) error {
	const q = `
		UPDATE accounts
		SET name=$1, surname=$2, phone=$3
		WHERE id=$4
	`
	if _, err := r.DB.Exec(q, acc.Name, acc.Surname, acc.Phone, acc.ID); err != nil {
		return fmt.Errorf("account update: %w", err)
	}
	return nil
}

func (r *accountRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM accounts WHERE id=$1`, id); err != nil {
		return fmt.Errorf("account delete: %w", err)
	}
	return nil
}

func (r *accountRepository) List(limit, offset int) ([]*models.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("account list: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		acc, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("account list scan: %w", err)
		}
		out = append(out, acc)
	}
	return out, rows.Err()
}

func (r *accountRepository) GetCount() (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&c); err != nil {
		return 0, fmt.Errorf("account count: %w", err)
	}
	return c, nil
}

func (r *accountRepository) GetCountByRole(role string) (int, error) {
	var c int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM accounts WHERE role=$1`, role).Scan(&c); err != nil {
		return 0, fmt.Errorf("account count by role: %w", err)
	}
	return c, nil
}

// codeColumns — пара колонок для назначения кода.
func codeColumns(purpose models.CodePurpose) (codeCol, expCol string) {
	if purpose == models.PurposeRecovery {
		return "recovery_code", "recovery_expires_at"
	}
	return "verification_code", "verification_expires_at"
}

func (r *accountRepository) SetCode(userID int, purpose models.CodePurpose, code string, expiresAt time.Time) error {
	codeCol, expCol := codeColumns(purpose)
	q := fmt.Sprintf(`UPDATE accounts SET %s=$1, %s=$2 WHERE id=$3`, codeCol, expCol)
	if _, err := r.DB.Exec(q, code, expiresAt, userID); err != nil {
		return fmt.Errorf("account set %s code: %w", purpose, err)
	}
	return nil
}

func (r *accountRepository) ClearCode(userID int, purpose models.CodePurpose) error {
	codeCol, expCol := codeColumns(purpose)
	q := fmt.Sprintf(`UPDATE accounts SET %s=NULL, %s=NULL WHERE id=$1`, codeCol, expCol)
	if _, err := r.DB.Exec(q, userID); err != nil {
		return fmt.Errorf("account clear %s code: %w", purpose, err)
	}
	return nil
}

func (r *accountRepository) MarkVerified(userID int) error {
	const q = `
		UPDATE accounts
		SET verified=TRUE, verification_code=NULL, verification_expires_at=NULL
		WHERE id=$1
	`
	if _, err := r.DB.Exec(q, userID); err != nil {
		return fmt.Errorf("account mark verified: %w", err)
	}
	return nil
}

func (r *accountRepository) UpdatePasswordAndClearCode(userID int, passwordHash string) error {
	const q = `
		UPDATE accounts
		SET password_hash=$1, recovery_code=NULL, recovery_expires_at=NULL
		WHERE id=$2
	`
	if _, err := r.DB.Exec(q, passwordHash, userID); err != nil {
		return fmt.Errorf("account update password: %w", err)
	}
	return nil
}

func (r *accountRepository) SetActive(userID int, active bool) error {
	if _, err := r.DB.Exec(`UPDATE accounts SET active=$1 WHERE id=$2`, active, userID); err != nil {
		return fmt.Errorf("account set active: %w", err)
	}
	return nil
}

func (r *accountRepository) UpdateRole(userID int, role string) error {
	if _, err := r.DB.Exec(`UPDATE accounts SET role=$1 WHERE id=$2`, role, userID); err != nil {
		return fmt.Errorf("account update role: %w", err)
	}
	return nil
}

func (r *accountRepository) UpdateTelegramChat(userID int, chatID int64) error {
	if _, err := r.DB.Exec(`UPDATE accounts SET telegram_chat_id=$1 WHERE id=$2`, chatID, userID); err != nil {
		return fmt.Errorf("account update telegram chat: %w", err)
	}
	return nil
}

func (r *accountRepository) RecordCodeSend(userID int, purpose models.CodePurpose, sentAt time.Time) error {
	const q = `INSERT INTO code_sends (account_id, purpose, sent_at) VALUES ($1,$2,$3)`
	if _, err := r.DB.Exec(q, userID, string(purpose), sentAt); err != nil {
		return fmt.Errorf("code send record: %w", err)
	}
	return nil
}

func (r *accountRepository) CountRecentCodeSends(userID int, purpose models.CodePurpose, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM code_sends WHERE account_id=$1 AND purpose=$2 AND sent_at >= $3`
	var c int
	if err := r.DB.QueryRow(q, userID, string(purpose), since).Scan(&c); err != nil {
		return 0, fmt.Errorf("code send count recent: %w", err)
	}
	return c, nil
}
