package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/terraincognita07/labcheck/internal/models"
)

// Legacy documents are the JSON files written by the file-based storage:
// day-YYYY-MM-DD.json maps a doctor name to LegacyDayData and
// state-initial.json holds one LegacyDayData used as the catalog template.

type LegacyDoctor struct {
	Name string `json:"name"`
}

type LegacyTask struct {
	Number      int               `json:"number"`
	Label       string            `json:"label"`
	State       models.TaskStatus `json:"state"`
	Description string            `json:"description"`
}

type LegacyBlock struct {
	Label string       `json:"label"`
	Tasks []LegacyTask `json:"tasks"`
}

type LegacyDayData struct {
	Doctors []LegacyDoctor `json:"doctors"`
	Blocks  []LegacyBlock  `json:"blocks"`
	Date    string         `json:"date"`
}

// LegacyDayFile is keyed by doctor name.
type LegacyDayFile map[string]LegacyDayData

type legacyDayWire struct {
	Doctors *[]LegacyDoctor    `json:"doctors"`
	Blocks  *[]legacyBlockWire `json:"blocks"`
	Date    *string            `json:"date"`
}

type legacyBlockWire struct {
	Label string            `json:"label"`
	Tasks *[]legacyTaskWire `json:"tasks"`
}

type legacyTaskWire struct {
	Number      *int             `json:"number"`
	Label       *string          `json:"label"`
	State       *legacyStateWire `json:"state"`
	Description *string          `json:"description"`
}

type legacyStateWire struct {
	Complete    *bool `json:"complete"`
	NotComplete *bool `json:"notComplete"`
}

// DecodeLegacyDayFile parses and validates a day file.
func DecodeLegacyDayFile(raw []byte) (LegacyDayFile, error) {
	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, withDetail(ErrInvalidDocument, err.Error())
	}

	file := make(LegacyDayFile, len(entries))
	for name, entry := range entries {
		data, err := DecodeLegacyDayData(entry)
		if err != nil {
			return nil, withDetail(err, "doctor "+name)
		}
		file[name] = data
	}
	return file, nil
}

// DecodeLegacyDayData parses one LegacyDayData. Every field must be present
// with the right JSON type.
func DecodeLegacyDayData(raw []byte) (LegacyDayData, error) {
	var wire legacyDayWire
	decoder := json.NewDecoder(bytes.NewReader(raw))
	if err := decoder.Decode(&wire); err != nil {
		return LegacyDayData{}, withDetail(ErrInvalidDocument, err.Error())
	}
	if wire.Doctors == nil || wire.Blocks == nil || wire.Date == nil {
		return LegacyDayData{}, withDetail(ErrInvalidDocument, "doctors, blocks and date are required")
	}

	data := LegacyDayData{
		Doctors: *wire.Doctors,
		Blocks:  make([]LegacyBlock, 0, len(*wire.Blocks)),
		Date:    *wire.Date,
	}
	for blockIndex, block := range *wire.Blocks {
		if block.Label == "" || block.Tasks == nil {
			return LegacyDayData{}, withDetail(ErrInvalidDocument, fmt.Sprintf("block %d needs a label and tasks", blockIndex+1))
		}
		converted := LegacyBlock{Label: block.Label, Tasks: make([]LegacyTask, 0, len(*block.Tasks))}
		for taskIndex, task := range *block.Tasks {
			if task.Number == nil || task.Label == nil || task.Description == nil ||
				task.State == nil || task.State.Complete == nil || task.State.NotComplete == nil {
				return LegacyDayData{}, withDetail(ErrInvalidDocument, fmt.Sprintf("task %d of block %q is incomplete", taskIndex+1, block.Label))
			}
			converted.Tasks = append(converted.Tasks, LegacyTask{
				Number: *task.Number,
				Label:  *task.Label,
				State: models.TaskStatus{
					Complete:    *task.State.Complete,
					NotComplete: *task.State.NotComplete,
				},
				Description: *task.Description,
			})
		}
		data.Blocks = append(data.Blocks, converted)
	}
	return data, nil
}

// catalogFromLegacy merges the doctors and blocks of every entry. Blocks keep
// their first appearance order; tasks are merged by number.
func catalogFromLegacy(doctorNames []string, entries []LegacyDayData) models.CatalogDocument {
	document := models.CatalogDocument{
		Doctors: make([]models.CatalogDoctor, 0, len(doctorNames)),
		Blocks:  make([]models.CatalogBlock, 0),
	}
	seenDoctors := make(map[string]bool, len(doctorNames))
	addDoctor := func(name string) {
		name = normalizeName(name)
		if name == "" || seenDoctors[name] {
			return
		}
		seenDoctors[name] = true
		document.Doctors = append(document.Doctors, models.CatalogDoctor{Name: name})
	}
	for _, name := range doctorNames {
		addDoctor(name)
	}

	blockIndex := make(map[string]int)
	taskSeen := make(map[string]map[int]bool)
	for _, entry := range entries {
		for _, doctor := range entry.Doctors {
			addDoctor(doctor.Name)
		}
		for _, block := range entry.Blocks {
			label := normalizeName(block.Label)
			index, exists := blockIndex[label]
			if !exists {
				index = len(document.Blocks)
				blockIndex[label] = index
				taskSeen[label] = make(map[int]bool)
				document.Blocks = append(document.Blocks, models.CatalogBlock{Label: label})
			}
			for _, task := range block.Tasks {
				if taskSeen[label][task.Number] {
					continue
				}
				taskSeen[label][task.Number] = true
				document.Blocks[index].Tasks = append(document.Blocks[index].Tasks, models.CatalogTask{
					Number: task.Number,
					Label:  task.Label,
				})
			}
		}
	}
	for index := range document.Blocks {
		tasks := document.Blocks[index].Tasks
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Number < tasks[j].Number })
	}
	return document
}
