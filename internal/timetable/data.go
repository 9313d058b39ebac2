package timetable

import "github.com/nhle/campus-pocket/internal/model"

var shuttleSchedule = []model.Departure{
	{ID: "0", Stop: model.StopLibrary, Time: "05:00"},
	{ID: "1", Stop: model.StopLibrary, Time: "09:00"},
	{ID: "2", Stop: model.StopEngineering, Time: "09:15"},
	{ID: "3", Stop: model.StopLibrary, Time: "09:30"},
	{ID: "4", Stop: model.StopEngineering, Time: "09:45"},
	{ID: "5", Stop: model.StopLibrary, Time: "10:00"},
	{ID: "6", Stop: model.StopEngineering, Time: "10:15"},
	{ID: "7", Stop: model.StopLibrary, Time: "12:10"},
	{ID: "8", Stop: model.StopEngineering, Time: "12:15"},
	{ID: "9", Stop: model.StopLibrary, Time: "12:20"},
	{ID: "10", Stop: model.StopEngineering, Time: "12:25"},
	{ID: "11", Stop: model.StopLibrary, Time: "12:50"},
	{ID: "12", Stop: model.StopEngineering, Time: "12:55"},
	{ID: "13", Stop: model.StopLibrary, Time: "13:00"},
	{ID: "14", Stop: model.StopEngineering, Time: "13:05"},
	{ID: "15", Stop: model.StopEngineering, Time: "13:10"},
	{ID: "16", Stop: model.StopLibrary, Time: "13:15"},
	{ID: "17", Stop: model.StopEngineering, Time: "13:20"},
	{ID: "18", Stop: model.StopLibrary, Time: "13:25"},
	{ID: "19", Stop: model.StopEngineering, Time: "13:30"},
	{ID: "20", Stop: model.StopLibrary, Time: "13:35"},
	{ID: "21", Stop: model.StopEngineering, Time: "13:40"},
	{ID: "22", Stop: model.StopLibrary, Time: "13:45"},
	{ID: "23", Stop: model.StopEngineering, Time: "13:50"},
	{ID: "24", Stop: model.StopLibrary, Time: "13:55"},
	{ID: "25", Stop: model.StopEngineering, Time: "14:00"},
	{ID: "26", Stop: model.StopLibrary, Time: "14:05"},
}
