package config

type WorkerKeyStruct struct {
	QuizTypeStatsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	QuizTypeStatsQueue: "quiz_type_stats_queue",
}
