package gormstore

import (
	"time"

	"github.com/rpggio/pnaas/internal/domain/project"
)

type projectModel struct {
	ID      int64     `gorm:"primaryKey;autoIncrement"`
	ResID   string    `gorm:"column:resid;size:32;uniqueIndex;not null"`
	Desc    string    `gorm:"column:desc;type:text;not null"`
	Owner   string    `gorm:"not null"`
	IP      string    `gorm:"column:ip;not null"`
	Created time.Time `gorm:"not null"`

	Responses []responseModel `gorm:"foreignKey:ProjectID"`
}

func (projectModel) TableName() string {
	return "projects"
}

type responseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ProjectID int64     `gorm:"not null;index"`
	Response  string    `gorm:"type:text;not null"`
	Created   time.Time `gorm:"not null"`
}

func (responseModel) TableName() string {
	return "responses"
}

func toProjectModel(p *project.Project) projectModel {
	return projectModel{
		ID:      p.ID,
		ResID:   p.ResID,
		Desc:    p.Desc,
		Owner:   p.Owner,
		IP:      p.IP,
		Created: p.CreatedAt.UTC(),
	}
}

func (m projectModel) toDomain() *project.Project {
	return &project.Project{
		ID:        m.ID,
		ResID:     m.ResID,
		Desc:      m.Desc,
		Owner:     m.Owner,
		IP:        m.IP,
		CreatedAt: m.Created.UTC(),
	}
}

func (m responseModel) toDomain() project.Response {
	return project.Response{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Text:      m.Response,
		CreatedAt: m.Created.UTC(),
	}
}
