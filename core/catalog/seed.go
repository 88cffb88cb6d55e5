package catalog

// SeedCourses is the default semester catalog loaded into an empty store.
func SeedCourses() []NewCourse {
	return []NewCourse{
		{Name: "Database Management Systems", Code: "CS301", Dept: "CSE", Day: "Mon", Time: "09:00-10:30", Credits: 4, Capacity: 50},
		{Name: "Operating Systems", Code: "CS302", Dept: "CSE", Day: "Tue", Time: "10:30-12:00", Credits: 4, Capacity: 50},
		{Name: "Artificial Intelligence & Machine Learning", Code: "CS401", Dept: "CSE", Day: "Wed", Time: "13:00-14:30", Credits: 4, Capacity: 55},
		{Name: "Computer Networks", Code: "CS303", Dept: "CSE", Day: "Thu", Time: "14:30-16:00", Credits: 3, Capacity: 45},
		{Name: "Full Stack Application Development", Code: "CS404", Dept: "CSE", Day: "Fri", Time: "10:30-12:00", Credits: 3, Capacity: 60},
		{Name: "Probability and Statistics", Code: "MA201", Dept: "MATH", Day: "Mon", Time: "13:00-14:30", Credits: 3, Capacity: 120},
		{Name: "Data Structures and Algorithms", Code: "CS201", Dept: "CSE", Day: "Tue", Time: "13:00-14:30", Credits: 4, Capacity: 60},
		{Name: "Cloud Infrastructure", Code: "CS405", Dept: "CSE", Day: "Wed", Time: "09:00-10:30", Credits: 3, Capacity: 40},
		{Name: "Research Methodology", Code: "HS301", Dept: "HSS", Day: "Thu", Time: "13:00-14:30", Credits: 2, Capacity: 80},
		{Name: "Software Engineering", Code: "CS304", Dept: "CSE", Day: "Fri", Time: "13:00-14:30", Credits: 3, Capacity: 60},
		// second sections
		{Name: "Database Management Systems", Code: "CS301", Dept: "CSE", Day: "Thu", Time: "09:00-10:30", Credits: 4, Capacity: 50},
		{Name: "Probability and Statistics", Code: "MA201", Dept: "MATH", Day: "Fri", Time: "09:00-10:30", Credits: 3, Capacity: 120},
	}
}
