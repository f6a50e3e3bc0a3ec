package store

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
    id                  INTEGER PRIMARY KEY,
    name                TEXT NOT NULL,
    minutes             INTEGER NOT NULL DEFAULT 0,
    submitted           DATETIME,
    n_steps             INTEGER NOT NULL DEFAULT 0,
    n_ingredients       INTEGER NOT NULL DEFAULT 0,
    description         TEXT NOT NULL DEFAULT '',
    ingredients         TEXT NOT NULL DEFAULT '[]',
    tags                TEXT NOT NULL DEFAULT '[]',
    steps               TEXT NOT NULL DEFAULT '[]',
    nutrition           TEXT NOT NULL DEFAULT '',
    raw_composite       REAL NOT NULL DEFAULT 0,
    nutrition_score     REAL NOT NULL DEFAULT 0,
    nutrition_grade     TEXT NOT NULL DEFAULT '',
    calories            REAL NOT NULL DEFAULT 0,
    total_fat_pdv       REAL NOT NULL DEFAULT 0,
    sugar_pdv           REAL NOT NULL DEFAULT 0,
    sodium_pdv          REAL NOT NULL DEFAULT 0,
    protein_pdv         REAL NOT NULL DEFAULT 0,
    saturated_fat_pdv   REAL NOT NULL DEFAULT 0,
    carbs_pdv           REAL NOT NULL DEFAULT 0,
    complexity_index    REAL NOT NULL DEFAULT 0,
    complexity_category TEXT NOT NULL DEFAULT '',
    is_vegetarian       BOOLEAN NOT NULL DEFAULT 0,
    average_rating      REAL NOT NULL DEFAULT 0,
    review_count        INTEGER NOT NULL DEFAULT 0,
    popularity_score    REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_recipes_grade ON recipes(nutrition_grade);
CREATE INDEX IF NOT EXISTS idx_recipes_score ON recipes(nutrition_score);
CREATE INDEX IF NOT EXISTS idx_recipes_minutes ON recipes(minutes);
CREATE INDEX IF NOT EXISTS idx_recipes_popularity ON recipes(popularity_score);

CREATE TABLE IF NOT EXISTS interactions (
    user_id   INTEGER NOT NULL,
    recipe_id INTEGER NOT NULL,
    rating    REAL NOT NULL,
    date      TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, recipe_id)
);

CREATE INDEX IF NOT EXISTS idx_interactions_recipe ON interactions(recipe_id);

CREATE TABLE IF NOT EXISTS runs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at      DATETIME NOT NULL,
    finished_at     DATETIME NOT NULL,
    recipe_count    INTEGER NOT NULL DEFAULT 0,
    scored_count    INTEGER NOT NULL DEFAULT 0,
    missing_values  INTEGER NOT NULL DEFAULT 0,
    invalid_vectors INTEGER NOT NULL DEFAULT 0,
    indexed_count   INTEGER NOT NULL DEFAULT 0,
    grade_counts    TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);
`
