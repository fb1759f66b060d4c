package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"project-pulse-backend/pkg/models"

	_ "github.com/lib/pq"
)

// PostgresDatabase is the lib/pq implementation
type PostgresDatabase struct {
	db *sql.DB
}

// NewPostgresDatabase opens a pooled connection and verifies it
func NewPostgresDatabase(dsn string) Interface {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		panic(fmt.Sprintf("Failed to open PostgreSQL connection: %v", err))
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		panic(fmt.Sprintf("Failed to ping PostgreSQL: %v", err))
	}

	fmt.Printf("✅ PostgreSQL connection established\n")
	return &PostgresDatabase{db: db}
}

func nullIfEmpty(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// ================= Users =================

func (db *PostgresDatabase) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleEditor
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	query := `
        INSERT INTO users (email, password_hash, name, role, avatar, avatar_color, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err := db.db.QueryRow(query, user.Email, user.Password, user.Name, string(user.Role), user.Avatar, user.AvatarColor, string(user.Status)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (db *PostgresDatabase) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var role, status string
	var lastActive sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &role, &u.Avatar, &u.AvatarColor, &status, &lastActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.UserRole(role)
	u.Status = models.UserStatus(status)
	if lastActive.Valid {
		t := lastActive.Time
		u.LastActiveAt = &t
	}
	return &u, nil
}

const userColumns = `id, email, COALESCE(password_hash,''), COALESCE(name,''), role, COALESCE(avatar,''), COALESCE(avatar_color,''), status, last_active_at, created_at, updated_at`

func (db *PostgresDatabase) GetUserByEmail(email string) (*models.User, error) {
	row := db.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := db.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (db *PostgresDatabase) GetUserByID(id string) (*models.User, error) {
	row := db.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := db.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (db *PostgresDatabase) UpdateUser(user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID is required for update")
	}
	query := `
        UPDATE users
        SET name = COALESCE($1, name),
            avatar = COALESCE($2, avatar),
            avatar_color = COALESCE($3, avatar_color),
            role = COALESCE($4, role),
            status = COALESCE($5, status),
            updated_at = NOW()
        WHERE id = $6
        RETURNING ` + userColumns + `
    `
	row := db.db.QueryRow(query, nullIfEmpty(user.Name), nullIfEmpty(user.Avatar), nullIfEmpty(user.AvatarColor),
		nullIfEmpty(string(user.Role)), nullIfEmpty(string(user.Status)), user.ID)
	fresh, err := db.scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	*user = *fresh
	return nil
}

func (db *PostgresDatabase) DeleteUser(id string) error {
	result, err := db.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

func (db *PostgresDatabase) ListUsers() ([]models.User, error) {
	rows, err := db.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()
	var result []models.User
	for rows.Next() {
		var u models.User
		var role, status string
		var lastActive sql.NullTime
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &role, &u.Avatar, &u.AvatarColor, &status, &lastActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = models.UserRole(role)
		u.Status = models.UserStatus(status)
		if lastActive.Valid {
			t := lastActive.Time
			u.LastActiveAt = &t
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (db *PostgresDatabase) CountUsers() (int, error) {
	var n int
	if err := db.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (db *PostgresDatabase) TouchUserActivity(id string, at time.Time) error {
	_, err := db.db.Exec(`UPDATE users SET last_active_at=$1, status='active', updated_at=NOW() WHERE id=$2`, at, id)
	return err
}

// ================= Boards & Workflow Steps =================

func (db *PostgresDatabase) CreateBoardWithSteps(board *models.Board, steps []models.WorkflowStep) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	query := `
        INSERT INTO boards (owner_id, name, team_title, project_color, is_archived, created_at, updated_at)
        VALUES ($1, $2, $3, $4, false, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	if err := tx.QueryRow(query, board.OwnerID, board.Name, board.TeamTitle, board.ProjectColor).
		Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to create board: %w", err)
	}
	for i := range steps {
		steps[i].BoardID = board.ID
		if err := tx.QueryRow(`
            INSERT INTO workflow_steps (board_id, name, slug, color_dot, color_progress, position, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
            RETURNING id, created_at, updated_at
        `, steps[i].BoardID, steps[i].Name, steps[i].Slug, steps[i].ColorDot, steps[i].ColorProgress, steps[i].Position).
			Scan(&steps[i].ID, &steps[i].CreatedAt, &steps[i].UpdatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to create workflow step %q: %w", steps[i].Slug, err)
		}
	}
	return tx.Commit()
}

const boardColumns = `id, owner_id, name, COALESCE(team_title,''), COALESCE(project_color,''), is_archived, created_at, updated_at`

func (db *PostgresDatabase) GetBoard(id string) (*models.Board, error) {
	var b models.Board
	err := db.db.QueryRow(`SELECT `+boardColumns+` FROM boards WHERE id = $1`, id).
		Scan(&b.ID, &b.OwnerID, &b.Name, &b.TeamTitle, &b.ProjectColor, &b.IsArchived, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("board not found")
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &b, nil
}

func (db *PostgresDatabase) ListBoards(includeArchived bool) ([]models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards`
	if !includeArchived {
		query += ` WHERE is_archived = false`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := db.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()
	var result []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.TeamTitle, &b.ProjectColor, &b.IsArchived, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

func (db *PostgresDatabase) UpdateBoard(board *models.Board) error {
	err := db.db.QueryRow(`
        UPDATE boards
        SET name = COALESCE($1, name),
            team_title = COALESCE($2, team_title),
            project_color = COALESCE($3, project_color),
            is_archived = $4,
            updated_at = NOW()
        WHERE id = $5
        RETURNING updated_at
    `, nullIfEmpty(board.Name), nullIfEmpty(board.TeamTitle), nullIfEmpty(board.ProjectColor), board.IsArchived, board.ID).
		Scan(&board.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("board not found")
		}
		return fmt.Errorf("failed to update board: %w", err)
	}
	return nil
}

func (db *PostgresDatabase) DeleteBoard(id string) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM projects WHERE board_id=$1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete board projects: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM workflow_steps WHERE board_id=$1`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete board workflow steps: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM boards WHERE id=$1`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		_ = tx.Rollback()
		return fmt.Errorf("board not found")
	}
	return tx.Commit()
}

const stepColumns = `id, board_id, name, slug, COALESCE(color_dot,''), COALESCE(color_progress,''), position, created_at, updated_at`

func (db *PostgresDatabase) ListWorkflowSteps(boardID string) ([]models.WorkflowStep, error) {
	rows, err := db.db.Query(`SELECT `+stepColumns+` FROM workflow_steps WHERE board_id=$1 ORDER BY position ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow steps: %w", err)
	}
	defer rows.Close()
	var result []models.WorkflowStep
	for rows.Next() {
		var s models.WorkflowStep
		if err := rows.Scan(&s.ID, &s.BoardID, &s.Name, &s.Slug, &s.ColorDot, &s.ColorProgress, &s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (db *PostgresDatabase) ReplaceWorkflowSteps(boardID string, steps []models.WorkflowStep) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM workflow_steps WHERE board_id=$1`, boardID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear workflow steps: %w", err)
	}
	for i := range steps {
		steps[i].BoardID = boardID
		if err := tx.QueryRow(`
            INSERT INTO workflow_steps (board_id, name, slug, color_dot, color_progress, position, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
            RETURNING id, created_at, updated_at
        `, boardID, steps[i].Name, steps[i].Slug, steps[i].ColorDot, steps[i].ColorProgress, steps[i].Position).
			Scan(&steps[i].ID, &steps[i].CreatedAt, &steps[i].UpdatedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert workflow step %q: %w", steps[i].Slug, err)
		}
	}
	return tx.Commit()
}

// ================= Projects =================

const projectColumns = `id, board_id, title, COALESCE(description,''), status, priority, dependency, COALESCE(assignee_id::text,''), COALESCE(created_by_id::text,''), start_date, due_date, COALESCE(sub_tasks,'[]'::jsonb), created_at, updated_at`

func scanProject(scan func(dest ...interface{}) error) (*models.Project, error) {
	var p models.Project
	var priority, dependency string
	var startDate, dueDate sql.NullTime
	var subTasksJSON []byte
	err := scan(&p.ID, &p.BoardID, &p.Title, &p.Description, &p.Status, &priority, &dependency,
		&p.AssigneeID, &p.CreatedByID, &startDate, &dueDate, &subTasksJSON, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Priority = models.Priority(priority)
	p.Dependency = models.DependencyStatus(dependency)
	if startDate.Valid {
		p.StartDate = startDate.Time.Format("2006-01-02")
	}
	if dueDate.Valid {
		p.DueDate = dueDate.Time.Format("2006-01-02")
	}
	if err := json.Unmarshal(subTasksJSON, &p.SubTasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sub tasks: %w", err)
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	return &p, nil
}

func (db *PostgresDatabase) CreateProject(p *models.Project) error {
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Dependency == "" {
		p.Dependency = models.DependencyNone
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	subTasksJSON, err := json.Marshal(p.SubTasks)
	if err != nil {
		return fmt.Errorf("failed to marshal sub tasks: %w", err)
	}
	query := `
        INSERT INTO projects (board_id, title, description, status, priority, dependency, assignee_id, created_by_id, start_date, due_date, sub_tasks, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	err = db.db.QueryRow(query, p.BoardID, p.Title, p.Description, p.Status, string(p.Priority), string(p.Dependency),
		nullIfEmpty(p.AssigneeID), nullIfEmpty(p.CreatedByID), nullIfEmpty(p.StartDate), nullIfEmpty(p.DueDate), subTasksJSON).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (db *PostgresDatabase) GetProject(id string) (*models.Project, error) {
	row := db.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id=$1`, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

func (db *PostgresDatabase) ListProjectsByBoard(boardID string) ([]models.Project, error) {
	rows, err := db.db.Query(`SELECT `+projectColumns+` FROM projects WHERE board_id=$1 ORDER BY created_at ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()
	var result []models.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (db *PostgresDatabase) UpdateProject(p *models.Project) error {
	subTasksJSON, err := json.Marshal(p.SubTasks)
	if err != nil {
		return fmt.Errorf("failed to marshal sub tasks: %w", err)
	}
	query := `
        UPDATE projects
        SET title=$1, description=$2, status=$3, priority=$4, dependency=$5,
            assignee_id=$6, start_date=$7, due_date=$8, sub_tasks=$9, updated_at=NOW()
        WHERE id=$10
        RETURNING updated_at
    `
	err = db.db.QueryRow(query, p.Title, p.Description, p.Status, string(p.Priority), string(p.Dependency),
		nullIfEmpty(p.AssigneeID), nullIfEmpty(p.StartDate), nullIfEmpty(p.DueDate), subTasksJSON, p.ID).
		Scan(&p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("project not found")
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

func (db *PostgresDatabase) DeleteProject(id string) error {
	result, err := db.db.Exec(`DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

func (db *PostgresDatabase) UpdateProjectStatus(id, status string) (*models.Project, error) {
	row := db.db.QueryRow(`
        UPDATE projects SET status=$1, updated_at=NOW() WHERE id=$2
        RETURNING `+projectColumns, status, id)
	p, err := scanProject(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to move project: %w", err)
	}
	return p, nil
}

func (db *PostgresDatabase) ToggleSubTask(projectID, subTaskID string) (*models.Project, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return nil, err
	}
	// Row lock so two toggles on the same project serialize instead of
	// clobbering each other's subtask array.
	var subTasksJSON []byte
	if err := tx.QueryRow(`SELECT COALESCE(sub_tasks,'[]'::jsonb) FROM projects WHERE id=$1 FOR UPDATE`, projectID).
		Scan(&subTasksJSON); err != nil {
		_ = tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found")
		}
		return nil, fmt.Errorf("failed to load sub tasks: %w", err)
	}
	var subTasks []models.SubTask
	if err := json.Unmarshal(subTasksJSON, &subTasks); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to unmarshal sub tasks: %w", err)
	}
	found := false
	for i := range subTasks {
		if subTasks[i].ID == subTaskID {
			subTasks[i].Completed = !subTasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		_ = tx.Rollback()
		return nil, fmt.Errorf("sub task not found")
	}
	updated, err := json.Marshal(subTasks)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to marshal sub tasks: %w", err)
	}
	row := tx.QueryRow(`UPDATE projects SET sub_tasks=$1, updated_at=NOW() WHERE id=$2 RETURNING `+projectColumns, updated, projectID)
	p, err := scanProject(row.Scan)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("failed to write sub tasks: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// ================= Invitations =================

const invitationColumns = `id, COALESCE(email,''), role, invited_by, token, status, expires_at, created_at, updated_at`

func (db *PostgresDatabase) CreateInvitation(inv *models.Invitation) error {
	query := `
        INSERT INTO invitations (email, role, invited_by, token, status, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	return db.db.QueryRow(query, nullIfEmpty(inv.Email), string(inv.Role), inv.InvitedBy, inv.Token, string(inv.Status), inv.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (db *PostgresDatabase) scanInvitation(row *sql.Row) (*models.Invitation, error) {
	var inv models.Invitation
	var role, status string
	err := row.Scan(&inv.ID, &inv.Email, &role, &inv.InvitedBy, &inv.Token, &status, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Role = models.UserRole(role)
	inv.Status = models.InvitationStatus(status)
	return &inv, nil
}

func (db *PostgresDatabase) GetInvitationByToken(token string) (*models.Invitation, error) {
	inv, err := db.scanInvitation(db.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invitation not found")
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

func (db *PostgresDatabase) GetInvitationByID(id string) (*models.Invitation, error) {
	inv, err := db.scanInvitation(db.db.QueryRow(`SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("invitation not found")
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

func (db *PostgresDatabase) ListPendingInvitations() ([]models.Invitation, error) {
	rows, err := db.db.Query(`SELECT ` + invitationColumns + ` FROM invitations WHERE status='pending' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()
	var result []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var role, status string
		if err := rows.Scan(&inv.ID, &inv.Email, &role, &inv.InvitedBy, &inv.Token, &status, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		inv.Role = models.UserRole(role)
		inv.Status = models.InvitationStatus(status)
		result = append(result, inv)
	}
	return result, rows.Err()
}

func (db *PostgresDatabase) UpdateInvitation(inv *models.Invitation) error {
	_, err := db.db.Exec(`
        UPDATE invitations SET status=$1, expires_at=$2, updated_at=NOW() WHERE id=$3
    `, string(inv.Status), inv.ExpiresAt, inv.ID)
	return err
}

// ================= Board settings =================

func (db *PostgresDatabase) GetBoardSettings(ownerID string) (*models.BoardSettings, error) {
	var s models.BoardSettings
	err := db.db.QueryRow(`
        SELECT id, owner_id, board_name, team_title, COALESCE(project_color,''), created_at, updated_at
        FROM board_settings WHERE owner_id = $1
    `, ownerID).Scan(&s.ID, &s.OwnerID, &s.BoardName, &s.TeamTitle, &s.ProjectColor, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("board settings not found")
		}
		return nil, fmt.Errorf("failed to get board settings: %w", err)
	}
	return &s, nil
}

func (db *PostgresDatabase) UpsertBoardSettings(s *models.BoardSettings) error {
	query := `
        INSERT INTO board_settings (owner_id, board_name, team_title, project_color, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        ON CONFLICT (owner_id)
        DO UPDATE SET
            board_name = EXCLUDED.board_name,
            team_title = EXCLUDED.team_title,
            project_color = EXCLUDED.project_color,
            updated_at = NOW()
        RETURNING id, created_at, updated_at
    `
	return db.db.QueryRow(query, s.OwnerID, s.BoardName, s.TeamTitle, s.ProjectColor).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// HealthCheck pings the database
func (db *PostgresDatabase) HealthCheck() error {
	return db.db.Ping()
}

// Close closes the connection pool
func (db *PostgresDatabase) Close() error {
	return db.db.Close()
}
