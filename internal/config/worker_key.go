package config

type WorkerKeyStruct struct {
	NotifyGradeReleaseQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotifyGradeReleaseQueue: "notify_grade_release_queue",
}
