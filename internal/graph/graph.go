package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/arangodb/shared"
	"github.com/arangodb/go-driver/v2/connection"

	"loopline.app/server/core/config"
)

var ErrNotFound = errors.New("graph document not found")

// Client is the social graph. People are vertices keyed by user ID and
// follows are directed edges; everything else (mutuals, suggestions) is
// derived by traversal.
type Client interface {
	EnsureDatabase(ctx context.Context) error
	EnsureCollections(ctx context.Context) error
	EnsureGraph(ctx context.Context) error

	EnsurePerson(ctx context.Context, userID int64) error
	RemovePerson(ctx context.Context, userID int64) error

	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)

	Followers(ctx context.Context, userID int64) ([]int64, error)
	Following(ctx context.Context, userID int64) ([]int64, error)
	CountFollowers(ctx context.Context, userID int64) (int64, error)
	Mutuals(ctx context.Context, userID, otherID int64) ([]int64, error)
	// Suggestions returns people followed by people the user follows,
	// excluding the user and anyone already followed.
	Suggestions(ctx context.Context, userID int64, limit int) ([]int64, error)

	Close() error
}

const (
	peopleCollection  = "people"
	followsCollection = "follows"
)

type client struct {
	conn         connection.Connection
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          config.ArangoDBConfig
}

func New(ctx context.Context, cfg config.ArangoDBConfig) (Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("arangodb config: URL, username and database are required")
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &client{
		conn:         conn,
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (c *client) Close() error {
	return nil
}

func (c *client) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := c.arangoClient.DatabaseExists(ctx, c.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = c.arangoClient.CreateDatabase(ctx, c.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", c.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := c.arangoClient.GetDatabase(ctx, c.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	c.db = db

	return nil
}

func (c *client) EnsureCollections(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	if err := c.ensureCollection(ctx, peopleCollection, false); err != nil {
		return err
	}
	return c.ensureCollection(ctx, followsCollection, true)
}

func (c *client) ensureCollection(ctx context.Context, name string, isEdge bool) error {
	exists, err := c.db.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check collection %s exists: %w", name, err)
	}

	if !exists {
		props := &arangodb.CreateCollectionPropertiesV2{}
		colType := arangodb.CollectionTypeDocument
		if isEdge {
			colType = arangodb.CollectionTypeEdge
		}
		props.Type = &colType

		_, err = c.db.CreateCollectionV2(ctx, name, props)
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created",
			"collection", name,
			"is_edge", isEdge)
	}

	return nil
}

func (c *client) EnsureGraph(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	exists, err := c.db.GraphExists(ctx, c.cfg.Graph)
	if err != nil {
		return fmt.Errorf("check graph exists: %w", err)
	}
	if exists {
		return nil
	}

	graphDef := &arangodb.GraphDefinition{
		Name: c.cfg.Graph,
		EdgeDefinitions: []arangodb.EdgeDefinition{
			{Collection: followsCollection, From: []string{peopleCollection}, To: []string{peopleCollection}},
		},
	}

	_, err = c.db.CreateGraph(ctx, c.cfg.Graph, graphDef, nil)
	if err != nil {
		return fmt.Errorf("create graph: %w", err)
	}

	slog.InfoContext(ctx, "arangodb graph created", "graph", c.cfg.Graph)
	return nil
}

func (c *client) EnsurePerson(ctx context.Context, userID int64) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, user_id: @user_id }
		UPDATE {} IN people
	`
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"key":     personKey(userID),
			"user_id": userID,
		},
	})
	if err != nil {
		return fmt.Errorf("upsert person: %w", err)
	}
	return cursor.Close()
}

func (c *client) RemovePerson(ctx context.Context, userID int64) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	// Drop the vertex and every follow edge touching it.
	query := `
		LET vid = CONCAT("people/", @key)
		FOR e IN follows
			FILTER e._from == vid OR e._to == vid
			REMOVE e IN follows
	`
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{"key": personKey(userID)},
	})
	if err != nil {
		return fmt.Errorf("remove follow edges: %w", err)
	}
	if err := cursor.Close(); err != nil {
		return err
	}

	col, err := c.db.GetCollection(ctx, peopleCollection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", peopleCollection, err)
	}
	if _, err := col.DeleteDocument(ctx, personKey(userID)); err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (c *client) Follow(ctx context.Context, followerID, followeeID int64) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	start := time.Now()

	// UPSERT keeps the edge unique per (follower, followee) pair.
	query := `
		UPSERT { _key: @key }
		INSERT { _key: @key, _from: @from, _to: @to, created_at: DATE_NOW() }
		UPDATE {} IN follows
	`
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"key":  followKey(followerID, followeeID),
			"from": personID(followerID),
			"to":   personID(followeeID),
		},
	})
	if err != nil {
		return fmt.Errorf("upsert follow edge: %w", err)
	}
	if err := cursor.Close(); err != nil {
		return err
	}

	slog.DebugContext(ctx, "follow edge written",
		"follower_id", followerID,
		"followee_id", followeeID,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}

	col, err := c.db.GetCollection(ctx, followsCollection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", followsCollection, err)
	}

	if _, err := col.DeleteDocument(ctx, followKey(followerID, followeeID)); err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete follow edge: %w", err)
	}
	return nil
}

func (c *client) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	if c.db == nil {
		return false, fmt.Errorf("database not initialized")
	}

	col, err := c.db.GetCollection(ctx, followsCollection, nil)
	if err != nil {
		return false, fmt.Errorf("get collection %s: %w", followsCollection, err)
	}

	exists, err := col.DocumentExists(ctx, followKey(followerID, followeeID))
	if err != nil {
		return false, fmt.Errorf("check follow edge: %w", err)
	}
	return exists, nil
}

func (c *client) Followers(ctx context.Context, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		FOR v IN 1..1 INBOUND @start GRAPH %q
			RETURN v.user_id
	`, c.cfg.Graph)
	return c.queryUserIDs(ctx, query, map[string]any{"start": personID(userID)})
}

func (c *client) Following(ctx context.Context, userID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		FOR v IN 1..1 OUTBOUND @start GRAPH %q
			RETURN v.user_id
	`, c.cfg.Graph)
	return c.queryUserIDs(ctx, query, map[string]any{"start": personID(userID)})
}

func (c *client) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	if c.db == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	query := `
		RETURN LENGTH(FOR e IN follows FILTER e._to == @vid RETURN 1)
	`
	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{"vid": personID(userID)},
	})
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	defer cursor.Close()

	var count int64
	if _, err := cursor.ReadDocument(ctx, &count); err != nil {
		return 0, fmt.Errorf("read count: %w", err)
	}
	return count, nil
}

func (c *client) Mutuals(ctx context.Context, userID, otherID int64) ([]int64, error) {
	query := fmt.Sprintf(`
		LET mine = (FOR v IN 1..1 OUTBOUND @start GRAPH %q RETURN v.user_id)
		FOR v IN 1..1 OUTBOUND @other GRAPH %q
			FILTER v.user_id IN mine
			RETURN v.user_id
	`, c.cfg.Graph, c.cfg.Graph)
	return c.queryUserIDs(ctx, query, map[string]any{
		"start": personID(userID),
		"other": personID(otherID),
	})
}

func (c *client) Suggestions(ctx context.Context, userID int64, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
		LET direct = (FOR v IN 1..1 OUTBOUND @start GRAPH %q RETURN v._id)
		FOR v IN 2..2 OUTBOUND @start GRAPH %q
			FILTER v._id != @start AND v._id NOT IN direct
			COLLECT candidate = v.user_id WITH COUNT INTO paths
			SORT paths DESC
			LIMIT @limit
			RETURN candidate
	`, c.cfg.Graph, c.cfg.Graph)
	return c.queryUserIDs(ctx, query, map[string]any{
		"start": personID(userID),
		"limit": limit,
	})
}

func (c *client) queryUserIDs(ctx context.Context, query string, bindVars map[string]any) ([]int64, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	start := time.Now()

	cursor, err := c.db.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer cursor.Close()

	var ids []int64
	for cursor.HasMore() {
		var id int64
		if _, err := cursor.ReadDocument(ctx, &id); err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		if id == 0 {
			continue
		}
		ids = append(ids, id)
	}

	slog.DebugContext(ctx, "graph traversal completed",
		"results", len(ids),
		"duration_ms", time.Since(start).Milliseconds())

	return ids, nil
}

func personKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func personID(userID int64) string {
	return peopleCollection + "/" + personKey(userID)
}

func followKey(followerID, followeeID int64) string {
	return strconv.FormatInt(followerID, 10) + "-" + strconv.FormatInt(followeeID, 10)
}
