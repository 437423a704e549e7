// Funnel - Nostr Video Analytics Pipeline
// Copyright 2026 The Funnel Authors
// SPDX-License-Identifier: MIT
// https://github.com/nostr-funnel/funnel

package store

// schemaDDL creates the base table Funnel writes to and the read-only
// materialized-view-equivalent contracts spec.md §3 describes. DuckDB
// has no ReplacingMergeTree; last-write-wins-by-id dedup is instead
// enforced at insert time by the writer's ON CONFLICT clause, and
// addressable-event resolution is expressed with arg_max, matching
// spec.md §9's "argMax(created_at)" contract.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS events_local (
	id           VARCHAR PRIMARY KEY,
	pubkey       VARCHAR NOT NULL,
	created_at   BIGINT NOT NULL,
	kind         INTEGER NOT NULL,
	content      VARCHAR NOT NULL DEFAULT '',
	sig          VARCHAR NOT NULL,
	tags         VARCHAR NOT NULL DEFAULT '[]',
	relay_source VARCHAR NOT NULL DEFAULT '',
	indexed_at   TIMESTAMP NOT NULL DEFAULT current_timestamp
);

CREATE INDEX IF NOT EXISTS idx_events_local_kind_created ON events_local(kind, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_events_local_pubkey ON events_local(pubkey, created_at DESC);

-- One row per (event, tag), positional value columns plus tag length,
-- per spec.md 3's event_tags_flat contract.
CREATE OR REPLACE VIEW event_tags_flat AS
SELECT
	e.id                                 AS event_id,
	e.pubkey                             AS pubkey,
	e.kind                               AS kind,
	e.created_at                         AS created_at,
	CAST(t.key AS INTEGER)               AS tag_index,
	json_array_length(t.value)           AS tag_len,
	json_extract_string(t.value, '$[0]') AS tag_name,
	json_extract_string(t.value, '$[1]') AS tag_value
FROM events_local e, json_each(e.tags) AS t;

-- Summing aggregates keyed by referenced event id, one increment per
-- e-tag on the source event, per spec.md 3.
CREATE OR REPLACE VIEW reaction_counts AS
SELECT tag_value AS event_id, count(*) AS reactions
FROM event_tags_flat
WHERE kind = 7 AND tag_name = 'e'
GROUP BY tag_value;

CREATE OR REPLACE VIEW comment_counts AS
SELECT tag_value AS event_id, count(*) AS comments
FROM event_tags_flat
WHERE kind = 1 AND tag_name = 'e'
GROUP BY tag_value;

CREATE OR REPLACE VIEW repost_counts AS
SELECT tag_value AS event_id, count(*) AS reposts
FROM event_tags_flat
WHERE kind IN (6, 16) AND tag_name = 'e'
GROUP BY tag_value;

-- Table macro returning the first (lowest tag_index) value of a named
-- tag per event, implementing spec.md 4.1's "first match wins" rule.
CREATE OR REPLACE MACRO first_tag_value(name) AS TABLE
SELECT event_id, tag_value AS value
FROM (
	SELECT event_id, tag_value,
	       row_number() OVER (PARTITION BY event_id ORDER BY tag_index) AS rn
	FROM event_tags_flat
	WHERE tag_name = name
)
WHERE rn = 1;

-- Per-event video metadata projection (spec.md 3's VideoMeta).
CREATE OR REPLACE VIEW event_video_meta AS
SELECT
	e.id, e.pubkey, e.created_at, e.kind,
	coalesce(d.value, '')  AS d_tag,
	coalesce(ti.value, '') AS title,
	coalesce(th.value, '') AS thumbnail
FROM events_local e
LEFT JOIN first_tag_value('d')     d  ON d.event_id  = e.id
LEFT JOIN first_tag_value('title') ti ON ti.event_id = e.id
LEFT JOIN first_tag_value('thumb') th ON th.event_id = e.id
WHERE e.kind IN (34235, 34236);

-- Latest version per (pubkey, d_tag), per spec.md 9's addressable-event
-- resolution contract.
CREATE OR REPLACE VIEW videos AS
SELECT
	arg_max(id, created_at)         AS id,
	pubkey,
	arg_max(created_at, created_at) AS created_at,
	arg_max(kind, created_at)       AS kind,
	d_tag,
	arg_max(title, created_at)      AS title,
	arg_max(thumbnail, created_at)  AS thumbnail
FROM event_video_meta
GROUP BY pubkey, d_tag;

-- video_stats: current version of each video joined with engagement counts.
-- engagement_score weights are part of the contract (spec.md 4.2), not configuration.
CREATE OR REPLACE VIEW video_stats AS
SELECT
	v.id,
	v.pubkey,
	v.created_at,
	v.kind,
	v.d_tag,
	v.title,
	v.thumbnail,
	coalesce(rc.reactions, 0) AS reactions,
	coalesce(cc.comments, 0)  AS comments,
	coalesce(rp.reposts, 0)   AS reposts,
	coalesce(rc.reactions, 0) + 2 * coalesce(cc.comments, 0) + 3 * coalesce(rp.reposts, 0) AS engagement_score
FROM videos v
LEFT JOIN reaction_counts rc ON rc.event_id = v.id
LEFT JOIN comment_counts  cc ON cc.event_id = v.id
LEFT JOIN repost_counts   rp ON rp.event_id = v.id;

-- trending_videos: video_stats decayed exponentially over a rolling
-- 7-day window, as exp(-age_hours / 24): the score falls by a factor of
-- e every 24h (it halves about every 16.6h). The 24h constant and the
-- weights above are hard-coded contract values (spec.md 9), not
-- configuration.
CREATE OR REPLACE VIEW trending_videos AS
SELECT
	vs.*,
	vs.engagement_score * exp(
		-1.0 * (epoch(current_timestamp) - vs.created_at) / 3600.0 / 24.0
	) AS trending_score
FROM video_stats vs
WHERE vs.created_at >= epoch(current_timestamp) - 7 * 86400;

-- video_hashtags: hashtag ("t" tag) index over video events.
CREATE OR REPLACE VIEW video_hashtags AS
SELECT
	f.event_id,
	f.tag_value AS hashtag,
	vs.created_at,
	vs.pubkey,
	vs.kind,
	vs.title,
	vs.thumbnail,
	vs.d_tag
FROM event_tags_flat f
JOIN video_stats vs ON vs.id = f.event_id
WHERE f.tag_name = 't' AND f.kind IN (34235, 34236);
`
