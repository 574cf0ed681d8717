package services

import (
	"fmt"
	"strings"
)

// Labels holds every user-visible string the quiz core produces.
type Labels struct {
	TaskTitleFormat string
	Instructions    string
	LoadError       string
	NoTasks         string
	ResultsSheet    string
	Preamble        [6]string // name, group, role, age, sex, difficulty
	TotalTime       string
	Header          [4]string // task, answer, duration, score
}

var (
	RussianLabels = Labels{
		TaskTitleFormat: "Задание %d",
		Instructions:    "Выберите один правильный вариант.",
		LoadError:       "Не удалось загрузить Question.xlsx. Проверьте /public/",
		NoTasks:         "Нет доступных заданий",
		ResultsSheet:    "Результаты",
		Preamble:        [6]string{"ФИО", "Группа", "Роль", "Возраст", "Пол", "Сложность"},
		TotalTime:       "Общее время",
		Header:          [4]string{"Задание", "Ответ", "Время прохождения", "Баллы"},
	}

	EnglishLabels = Labels{
		TaskTitleFormat: "Task %d",
		Instructions:    "Choose one correct option.",
		LoadError:       "Failed to load Question.xlsx. Check the task source location",
		NoTasks:         "No tasks available",
		ResultsSheet:    "Results",
		Preamble:        [6]string{"Name", "Group", "Role", "Age", "Sex", "Difficulty"},
		TotalTime:       "Total time",
		Header:          [4]string{"Task", "Answer", "Duration", "Score"},
	}
)

// LabelsFor returns the label set for a locale code, defaulting to Russian.
func LabelsFor(locale string) Labels {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en", "en-us", "en-gb":
		return EnglishLabels
	default:
		return RussianLabels
	}
}

func (l Labels) TaskTitle(id int) string {
	return fmt.Sprintf(l.TaskTitleFormat, id)
}
