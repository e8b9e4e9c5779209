package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/bugtracker-api/internal/models"
	"github.com/yukikurage/bugtracker-api/internal/repository"
)

func setupAccessTestDB(t *testing.T) (*gorm.DB, *AccessService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Team{},
		&models.TeamMember{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewAccessService(repository.NewProjectRepository(db))
}

func seedAccessFixture(t *testing.T, db *gorm.DB) (owner, member, stranger models.User, project models.Project) {
	t.Helper()

	owner = models.User{Email: "owner@example.com", PasswordHash: "x"}
	member = models.User{Email: "member@example.com", PasswordHash: "x"}
	stranger = models.User{Email: "stranger@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&member).Error)
	require.NoError(t, db.Create(&stranger).Error)

	project = models.Project{Name: "Tracker", OwnerUserID: owner.ID}
	require.NoError(t, db.Create(&project).Error)

	team := models.Team{Name: "Backend", ProjectID: project.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   member.ID,
		Role:     models.RoleTester,
		JoinedAt: time.Now(),
	}).Error)

	return owner, member, stranger, project
}

func TestResolveRole_Owner(t *testing.T) {
	db, access := setupAccessTestDB(t)
	owner, _, _, project := seedAccessFixture(t, db)

	require.Equal(t, models.RoleOwner, access.ResolveRole(owner.ID, ScopeProject(project.ID)))
}

func TestResolveRole_Member(t *testing.T) {
	db, access := setupAccessTestDB(t)
	_, member, _, project := seedAccessFixture(t, db)

	require.Equal(t, models.RoleTester, access.ResolveRole(member.ID, ScopeProject(project.ID)))
}

func TestResolveRole_StrangerIsGuest(t *testing.T) {
	db, access := setupAccessTestDB(t)
	_, _, stranger, project := seedAccessFixture(t, db)

	require.Equal(t, models.RoleGuest, access.ResolveRole(stranger.ID, ScopeProject(project.ID)))
}

func TestResolveRole_MissingProjectIsGuest(t *testing.T) {
	db, access := setupAccessTestDB(t)
	owner, _, _, _ := seedAccessFixture(t, db)

	require.Equal(t, models.RoleGuest, access.ResolveRole(owner.ID, ScopeProject(9999)))
}

func TestResolveRole_AllProjectsScopeIsOwner(t *testing.T) {
	db, access := setupAccessTestDB(t)
	_, member, _, _ := seedAccessFixture(t, db)

	require.Equal(t, models.RoleOwner, access.ResolveRole(member.ID, ScopeAll()))
}

func TestResolveRole_HighestPrivilegeWins(t *testing.T) {
	db, access := setupAccessTestDB(t)
	_, member, _, project := seedAccessFixture(t, db)

	// Second membership on the same project at a stronger role.
	team := models.Team{Name: "Core", ProjectID: project.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   member.ID,
		Role:     models.RoleDeveloper,
		JoinedAt: time.Now(),
	}).Error)

	require.Equal(t, models.RoleDeveloper, access.ResolveRole(member.ID, ScopeProject(project.ID)))
}

func TestAccessibleProjectIDs_DeduplicatesOwnership(t *testing.T) {
	db, access := setupAccessTestDB(t)
	owner, member, _, project := seedAccessFixture(t, db)

	// The owner also joins a team on their own project.
	team := models.Team{Name: "Extra", ProjectID: project.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{
		TeamID:   team.ID,
		UserID:   owner.ID,
		Role:     models.RoleDeveloper,
		JoinedAt: time.Now(),
	}).Error)

	ids, err := access.AccessibleProjectIDs(owner.ID)
	require.NoError(t, err)
	require.Equal(t, []uint64{project.ID}, ids)

	ids, err = access.AccessibleProjectIDs(member.ID)
	require.NoError(t, err)
	require.Equal(t, []uint64{project.ID}, ids)
}
