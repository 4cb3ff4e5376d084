package models

import "time"

// Video represents a video stored in the 'videos' table. Videos are shared
// between users and keyed by the YouTube-assigned identifier.
type Video struct {
	YouTubeVideoID     string     `db:"youtube_video_id" json:"videoId"`
	VideoTitle         *string    `db:"video_title" json:"videoTitle"`
	ChannelTitle       *string    `db:"channel_title" json:"channelTitle"`
	ThumbnailURL       *string    `db:"thumbnail_url" json:"thumbnailUrl"`
	LastCommentFetchAt *time.Time `db:"last_comment_fetch_at" json:"lastCommentFetchAt"`
	CreatedAt          time.Time  `db:"created_at" json:"-"`
	UpdatedAt          time.Time  `db:"updated_at" json:"-"`
}

// Comment represents a top-level YouTube comment stored in the 'comments'
// table, unique per youtube_comment_id.
type Comment struct {
	YouTubeCommentID string    `db:"youtube_comment_id" json:"commentId"`
	YouTubeVideoID   string    `db:"youtube_video_id" json:"videoId"`
	TextContent      string    `db:"text_content" json:"text"`
	AuthorName       string    `db:"author_name" json:"authorName"`
	PublishedAt      time.Time `db:"published_at" json:"publishedAt"`
	LikeCount        int64     `db:"like_count" json:"likeCount"`
	RetrievedAt      time.Time `db:"retrieved_at" json:"-"`
}

// VideoDetails is the metadata returned by the YouTube Data API for one video.
type VideoDetails struct {
	VideoID      string
	Title        string
	ChannelTitle string
	ThumbnailURL string
}

// RawComment is a comment as fetched from the YouTube Data API, before any
// filtering or persistence.
type RawComment struct {
	ID          string
	Text        string
	AuthorName  string
	PublishedAt time.Time
	LikeCount   int64
}
