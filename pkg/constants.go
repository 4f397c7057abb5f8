package shared

const (
	ProjectID = "solace-wellness" // Overridden by GOOGLE_CLOUD_PROJECT

	TopicExerciseCompleted = "topic-exercise-completed"

	EventTypeExerciseCompleted = "com.solace.exercise.completed"
	EventSource                = "/solace/progress"

	CollectionUsers       = "users"
	CollectionCompletions = "completions"
	CollectionExecutions  = "executions"
)
