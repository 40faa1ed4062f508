package postgres

// migrations returns the versioned schema for the maintenance pipeline.
// JSONB columns carry the list-valued sub-records; scalar columns carry
// everything the API filters or transitions on.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS recommendations (
				id TEXT PRIMARY KEY,
				tail_number TEXT NOT NULL,
				type TEXT NOT NULL,
				confidence DOUBLE PRECISION NOT NULL,
				estimated_cost DOUBLE PRECISION NOT NULL,
				urgency TEXT NOT NULL,
				reasoning JSONB NOT NULL DEFAULT '[]',
				status TEXT NOT NULL,
				generated_by TEXT NOT NULL,
				approved_by TEXT,
				approval_notes TEXT,
				rejected_by TEXT,
				rejection_reason TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				decided_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_recommendations_tail ON recommendations (tail_number);
			CREATE INDEX IF NOT EXISTS idx_recommendations_status ON recommendations (status);

			CREATE TABLE IF NOT EXISTS active_workflows (
				id TEXT PRIMARY KEY,
				recommendation_id TEXT NOT NULL,
				tail_number TEXT NOT NULL,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				assignments JSONB NOT NULL DEFAULT '[]',
				calendar JSONB NOT NULL DEFAULT '{}',
				bookings JSONB NOT NULL DEFAULT '[]',
				work_order JSONB NOT NULL DEFAULT '{}',
				compliance JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_active_workflows_tail ON active_workflows (tail_number);
			CREATE INDEX IF NOT EXISTS idx_active_workflows_status ON active_workflows (status);
		`,
	}
}
