package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	usersTable             = "users"
	skillsTable            = "skills"
	projectsTable          = "projects"
	projectSkillsTable     = "project_skills"
	tasksTable             = "tasks"
	taskPrerequisitesTable = "task_prerequisites"
	taskSkillsTable        = "task_skills"
	userSkillsTable        = "user_skills"
	userTasksTable         = "user_tasks"
	enrollmentsTable       = "enrollments"
	submissionsTable       = "submissions"
)

const textSize = 2147483647

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       usersTable,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// SkillsColumns holds the columns for the "skills" table.
	SkillsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "category", Type: field.TypeString, Default: ""},
	}
	// SkillsTable holds the schema information for the "skills" table.
	SkillsTable = &schema.Table{
		Name:       skillsTable,
		Columns:    SkillsColumns,
		PrimaryKey: []*schema.Column{SkillsColumns[0]},
	}

	// ProjectsColumns holds the columns for the "projects" table.
	ProjectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "title", Type: field.TypeString, Unique: true},
		{Name: "description", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "difficulty", Type: field.TypeString},
	}
	// ProjectsTable holds the schema information for the "projects" table.
	ProjectsTable = &schema.Table{
		Name:       projectsTable,
		Columns:    ProjectsColumns,
		PrimaryKey: []*schema.Column{ProjectsColumns[0]},
	}

	// ProjectSkillsColumns holds the columns for the "project_skills" table.
	ProjectSkillsColumns = []*schema.Column{
		{Name: "project_id", Type: field.TypeInt64},
		{Name: "skill_id", Type: field.TypeInt64},
		{Name: "proficiency", Type: field.TypeString, Default: ""},
	}
	// ProjectSkillsTable holds the schema information for the "project_skills" table.
	ProjectSkillsTable = &schema.Table{
		Name:       projectSkillsTable,
		Columns:    ProjectSkillsColumns,
		PrimaryKey: []*schema.Column{ProjectSkillsColumns[0], ProjectSkillsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "project_skills_project_id",
				Columns:    []*schema.Column{ProjectSkillsColumns[0]},
				RefColumns: []*schema.Column{ProjectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "project_skills_skill_id",
				Columns:    []*schema.Column{ProjectSkillsColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "project_id", Type: field.TypeInt64},
		{Name: "title", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "scenario", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "expected_outcome", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "resource_ref", Type: field.TypeString, Default: ""},
	}
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = &schema.Table{
		Name:       tasksTable,
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tasks_project_id",
				Columns:    []*schema.Column{TasksColumns[1]},
				RefColumns: []*schema.Column{ProjectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "task_project_id", Columns: []*schema.Column{TasksColumns[1]}},
		},
	}

	// TaskPrerequisitesColumns holds the columns for the "task_prerequisites" table.
	TaskPrerequisitesColumns = []*schema.Column{
		{Name: "task_id", Type: field.TypeInt64},
		{Name: "prerequisite_id", Type: field.TypeInt64},
	}
	// TaskPrerequisitesTable holds the schema information for the "task_prerequisites" table.
	TaskPrerequisitesTable = &schema.Table{
		Name:       taskPrerequisitesTable,
		Columns:    TaskPrerequisitesColumns,
		PrimaryKey: []*schema.Column{TaskPrerequisitesColumns[0], TaskPrerequisitesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "task_prerequisites_task_id",
				Columns:    []*schema.Column{TaskPrerequisitesColumns[0]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "task_prerequisites_prerequisite_id",
				Columns:    []*schema.Column{TaskPrerequisitesColumns[1]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// TaskSkillsColumns holds the columns for the "task_skills" table.
	TaskSkillsColumns = []*schema.Column{
		{Name: "task_id", Type: field.TypeInt64},
		{Name: "skill_id", Type: field.TypeInt64},
	}
	// TaskSkillsTable holds the schema information for the "task_skills" table.
	TaskSkillsTable = &schema.Table{
		Name:       taskSkillsTable,
		Columns:    TaskSkillsColumns,
		PrimaryKey: []*schema.Column{TaskSkillsColumns[0], TaskSkillsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "task_skills_task_id",
				Columns:    []*schema.Column{TaskSkillsColumns[0]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "task_skills_skill_id",
				Columns:    []*schema.Column{TaskSkillsColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// UserSkillsColumns holds the columns for the "user_skills" table.
	UserSkillsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "skill_id", Type: field.TypeInt64},
		{Name: "proficiency", Type: field.TypeString, Default: ""},
	}
	// UserSkillsTable holds the schema information for the "user_skills" table.
	UserSkillsTable = &schema.Table{
		Name:       userSkillsTable,
		Columns:    UserSkillsColumns,
		PrimaryKey: []*schema.Column{UserSkillsColumns[0], UserSkillsColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_skills_user_id",
				Columns:    []*schema.Column{UserSkillsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "user_skills_skill_id",
				Columns:    []*schema.Column{UserSkillsColumns[1]},
				RefColumns: []*schema.Column{SkillsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// UserTasksColumns holds the columns for the "user_tasks" table.
	UserTasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "task_id", Type: field.TypeInt64},
		{Name: "status", Type: field.TypeString},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	// UserTasksTable holds the schema information for the "user_tasks" table.
	UserTasksTable = &schema.Table{
		Name:       userTasksTable,
		Columns:    UserTasksColumns,
		PrimaryKey: []*schema.Column{UserTasksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "user_tasks_user_id",
				Columns:    []*schema.Column{UserTasksColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "user_tasks_task_id",
				Columns:    []*schema.Column{UserTasksColumns[2]},
				RefColumns: []*schema.Column{TasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "usertask_user_id_task_id", Unique: true, Columns: []*schema.Column{UserTasksColumns[1], UserTasksColumns[2]}},
		},
	}

	// EnrollmentsColumns holds the columns for the "enrollments" table.
	EnrollmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "project_id", Type: field.TypeInt64},
		{Name: "status", Type: field.TypeString},
		{Name: "progress", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeTime},
	}
	// EnrollmentsTable holds the schema information for the "enrollments" table.
	EnrollmentsTable = &schema.Table{
		Name:       enrollmentsTable,
		Columns:    EnrollmentsColumns,
		PrimaryKey: []*schema.Column{EnrollmentsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "enrollments_user_id",
				Columns:    []*schema.Column{EnrollmentsColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "enrollments_project_id",
				Columns:    []*schema.Column{EnrollmentsColumns[2]},
				RefColumns: []*schema.Column{ProjectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "enrollment_user_id_project_id", Unique: true, Columns: []*schema.Column{EnrollmentsColumns[1], EnrollmentsColumns[2]}},
		},
	}

	// SubmissionsColumns holds the columns for the "submissions" table.
	SubmissionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_task_id", Type: field.TypeInt64},
		{Name: "file_ref", Type: field.TypeString},
		{Name: "attempt", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt, Nullable: true},
		{Name: "feedback", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SubmissionsTable holds the schema information for the "submissions" table.
	SubmissionsTable = &schema.Table{
		Name:       submissionsTable,
		Columns:    SubmissionsColumns,
		PrimaryKey: []*schema.Column{SubmissionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "submissions_user_task_id",
				Columns:    []*schema.Column{SubmissionsColumns[1]},
				RefColumns: []*schema.Column{UserTasksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "submission_user_task_id_attempt", Unique: true, Columns: []*schema.Column{SubmissionsColumns[1], SubmissionsColumns[3]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		SkillsTable,
		ProjectsTable,
		ProjectSkillsTable,
		TasksTable,
		TaskPrerequisitesTable,
		TaskSkillsTable,
		UserSkillsTable,
		UserTasksTable,
		EnrollmentsTable,
		SubmissionsTable,
	}
)

func init() {
	ProjectSkillsTable.ForeignKeys[0].RefTable = ProjectsTable
	ProjectSkillsTable.ForeignKeys[1].RefTable = SkillsTable
	TasksTable.ForeignKeys[0].RefTable = ProjectsTable
	TaskPrerequisitesTable.ForeignKeys[0].RefTable = TasksTable
	TaskPrerequisitesTable.ForeignKeys[1].RefTable = TasksTable
	TaskSkillsTable.ForeignKeys[0].RefTable = TasksTable
	TaskSkillsTable.ForeignKeys[1].RefTable = SkillsTable
	UserSkillsTable.ForeignKeys[0].RefTable = UsersTable
	UserSkillsTable.ForeignKeys[1].RefTable = SkillsTable
	UserTasksTable.ForeignKeys[0].RefTable = UsersTable
	UserTasksTable.ForeignKeys[1].RefTable = TasksTable
	EnrollmentsTable.ForeignKeys[0].RefTable = UsersTable
	EnrollmentsTable.ForeignKeys[1].RefTable = ProjectsTable
	SubmissionsTable.ForeignKeys[0].RefTable = UserTasksTable
}
