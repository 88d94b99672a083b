package services

import (
	"context"

	"github.com/yeremiapane/tablemate/models"
	"gorm.io/gorm"
)

// NoServerID is the server id reported when nobody can take a table.
const NoServerID int64 = -1

// ServerAssignment is the outcome of picking a server for a new table.
type ServerAssignment struct {
	ServerID   int64  `json:"server_id"`
	ServerName string `json:"server_name"`
}

// Found reports whether a server was picked.
func (a ServerAssignment) Found() bool {
	return a.ServerID != NoServerID
}

// ServerAssigner picks the least-loaded working server of a restaurant.
type ServerAssigner struct {
	db *gorm.DB
}

func NewServerAssigner(db *gorm.DB) *ServerAssigner {
	return &ServerAssigner{db: db}
}

// AssignServer is read-only; persisting the choice is up to the caller.
// When nobody is working it returns the NoServerID assignment with ErrNoServerAvailable.
func (a *ServerAssigner) AssignServer(ctx context.Context, restaurantAddress string) (ServerAssignment, error) {
	assignment, err := a.pick(a.db.WithContext(ctx), restaurantAddress)
	return assignment, storeError("assign server", err)
}

// pick runs on whatever handle it is given so table creation can call it inside its transaction.
func (a *ServerAssigner) pick(tx *gorm.DB, restaurantAddress string) (ServerAssignment, error) {
	none := ServerAssignment{ServerID: NoServerID}

	var servers []models.User
	if err := tx.
		Where("is_server = ? AND is_working = ? AND working_restaurant = ?", true, true, restaurantAddress).
		Order("id ASC").
		Find(&servers).Error; err != nil {
		return none, err
	}
	if len(servers) == 0 {
		return none, ErrNoServerAvailable
	}

	ids := make([]int64, len(servers))
	for i, s := range servers {
		ids[i] = int64(s.ID)
	}

	var counts []struct {
		ServerID   int64
		TableCount int64
	}
	if err := tx.Model(&models.Table{}).
		Select("server_id, COUNT(*) AS table_count").
		Where("server_id IN ?", ids).
		Group("server_id").
		Scan(&counts).Error; err != nil {
		return none, err
	}
	load := make(map[int64]int64, len(counts))
	for _, c := range counts {
		load[c.ServerID] = c.TableCount
	}

	// strict less-than keeps the earliest server on ties
	best := servers[0]
	bestLoad := load[int64(best.ID)]
	for _, s := range servers[1:] {
		if l := load[int64(s.ID)]; l < bestLoad {
			best, bestLoad = s, l
		}
	}

	return ServerAssignment{ServerID: int64(best.ID), ServerName: best.FirstName}, nil
}
