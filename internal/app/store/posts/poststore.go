// Package poststore manages posts, their embedded vote tallies, and feed
// assembly.
package poststore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/redteahq/redtea/internal/app/store/adminactions"
	"github.com/redteahq/redtea/internal/app/system/adminlist"
	"github.com/redteahq/redtea/internal/app/system/normalize"
	"github.com/redteahq/redtea/internal/domain/models"
)

var (
	// ErrNotFound is returned when no post matches the lookup.
	ErrNotFound = errors.New("post not found")
	// ErrVoteConflict is returned when a vote raced with another vote on
	// the same post. Callers retry or surface a conflict.
	ErrVoteConflict = errors.New("vote conflicted with a concurrent update")
	// ErrInvalidVoteType is returned for vote types other than green, red,
	// or none.
	ErrInvalidVoteType = errors.New(`vote type must be "green"|"red"|"none"`)
)

type Store struct {
	c        *mongo.Collection
	users    *mongo.Collection
	comments *mongo.Collection
	admins   *adminlist.List
	audit    *adminactions.Store
}

// New creates a post Store. The allow-list gates Delete.
func New(db *mongo.Database, admins *adminlist.List) *Store {
	return &Store{
		c:        db.Collection("posts"),
		users:    db.Collection("users"),
		comments: db.Collection("comments"),
		admins:   admins,
		audit:    adminactions.New(db),
	}
}

// Create inserts a new post with zeroed tallies.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.GreenFlags = 0
	p.RedFlags = 0
	p.Voters = []models.Vote{}
	p.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetByID loads a post by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListNewestFirst returns posts ordered by creation time, newest first.
func (s *Store) ListNewestFirst(ctx context.Context, limit int64) ([]models.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Vote records voterID's flag on the post. A repeat of the same vote is a
// no-op, a different vote replaces the old one, and "none" retracts it.
// Counters and the voter list are written in a single update whose filter
// pins the voter's prior state, so two racing votes can never double-count:
// the loser's filter no longer matches and the call returns ErrVoteConflict.
func (s *Store) Vote(ctx context.Context, postID primitive.ObjectID, voterID, voteType string) (*models.Post, error) {
	voteType = normalize.VoteType(voteType)
	switch voteType {
	case models.VoteGreen, models.VoteRed, models.VoteNone:
	default:
		return nil, ErrInvalidVoteType
	}

	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	prev := models.VoteNone
	voters := make([]models.Vote, 0, len(p.Voters)+1)
	for _, v := range p.Voters {
		if v.UserID == voterID {
			prev = v.Type
			continue
		}
		voters = append(voters, v)
	}
	if prev == voteType {
		return p, nil
	}
	if voteType != models.VoteNone {
		voters = append(voters, models.Vote{UserID: voterID, Type: voteType})
	}

	green, red := p.GreenFlags, p.RedFlags
	switch prev {
	case models.VoteGreen:
		green--
	case models.VoteRed:
		red--
	}
	switch voteType {
	case models.VoteGreen:
		green++
	case models.VoteRed:
		red++
	}

	// The filter pins the voter's prior entry (or its absence), so a
	// concurrent vote by the same user invalidates this update.
	filter := bson.M{
		"_id":         postID,
		"green_flags": p.GreenFlags,
		"red_flags":   p.RedFlags,
	}
	if prev == models.VoteNone {
		filter["voters"] = bson.M{"$not": bson.M{"$elemMatch": bson.M{"user_id": voterID}}}
	} else {
		filter["voters"] = bson.M{"$elemMatch": bson.M{"user_id": voterID, "type": prev}}
	}

	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"voters":      voters,
		"green_flags": green,
		"red_flags":   red,
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrVoteConflict
	}

	p.Voters = voters
	p.GreenFlags = green
	p.RedFlags = red
	return p, nil
}

// Delete removes a post and its comments. Only allow-listed admins may call
// this; one audit record is written per successful call.
func (s *Store) Delete(ctx context.Context, adminID string, postID primitive.ObjectID) error {
	if err := s.admins.Require(adminID); err != nil {
		return err
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := s.comments.DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return err
	}

	return s.audit.Log(ctx, models.AdminAction{
		AdminID:      adminID,
		ActionType:   models.ActionDeletePost,
		TargetPostID: &postID,
	})
}

// FeedItem is one entry of the assembled feed: the post plus its author's
// pseudonym and comment count. Real names never appear here.
type FeedItem struct {
	PostID       primitive.ObjectID `json:"post_id"`
	Pseudonym    string             `json:"pseudonym"`
	Text         string             `json:"text"`
	Age          int                `json:"age"`
	City         string             `json:"city"`
	FileID       *string            `json:"file_id,omitempty"`
	GreenFlags   int                `json:"green_flags"`
	RedFlags     int                `json:"red_flags"`
	CommentCount int                `json:"comment_count"`
	ViewerVote   string             `json:"viewer_vote,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Feed assembles the newest posts with author pseudonyms and comment
// counts. viewerID, when non-empty, fills each item's ViewerVote.
func (s *Store) Feed(ctx context.Context, viewerID string, limit int64) ([]FeedItem, error) {
	posts, err := s.ListNewestFirst(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []FeedItem{}, nil
	}

	authorIDs := make([]primitive.ObjectID, 0, len(posts))
	postIDs := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.UserID)
		postIDs = append(postIDs, p.ID)
	}

	pseudonyms, err := s.pseudonymsByID(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	counts, err := s.commentCounts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(posts))
	for _, p := range posts {
		label := pseudonyms[p.UserID]
		if label == "" {
			// Author record gone (account deleted); keep the post readable.
			label = "Anonymous"
		}
		item := FeedItem{
			PostID:       p.ID,
			Pseudonym:    label,
			Text:         p.Text,
			Age:          p.Age,
			City:         p.City,
			FileID:       p.FileID,
			GreenFlags:   p.GreenFlags,
			RedFlags:     p.RedFlags,
			CommentCount: counts[p.ID],
			CreatedAt:    p.CreatedAt,
		}
		if viewerID != "" {
			for _, v := range p.Voters {
				if v.UserID == viewerID {
					item.ViewerVote = v.Type
					break
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) pseudonymsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Pseudonym
	}
	return out, nil
}

func (s *Store) commentCounts(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$post_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID primitive.ObjectID `bson:"_id"`
		Count  int                `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]int, len(rows))
	for _, r := range rows {
		out[r.PostID] = r.Count
	}
	return out, nil
}
