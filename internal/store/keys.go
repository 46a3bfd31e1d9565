package store

import "strings"

// Every key in the database is an ordered tuple joined with "/". The
// ownership chain is embedded in the key itself, so deleting an
// ancestor can enumerate all of its descendants with one prefix scan:
//
//	users/{email}
//	users/{email}/notifications/{id}
//	projects/{id}
//	projects/{id}/anuncios/{id}
//	projects/{id}/tareas/{id}
//	projects/{id}/tareas/{id}/comentarios/{id}
//
// No key string is assembled outside this file.

func UserKey(email string) []byte {
	return []byte("users/" + email)
}

func UsersPrefix() []byte {
	return []byte("users/")
}

func ProjectsPrefix() []byte {
	return []byte("projects/")
}

func NotificationKey(email, id string) []byte {
	return []byte("users/" + email + "/notifications/" + id)
}

func NotificationPrefix(email string) []byte {
	return []byte("users/" + email + "/notifications/")
}

func ProjectKey(id string) []byte {
	return []byte("projects/" + id)
}

// ProjectTreePrefix covers every record owned by the project, but not
// the project record itself.
func ProjectTreePrefix(id string) []byte {
	return []byte("projects/" + id + "/")
}

func AnnouncementKey(projectID, id string) []byte {
	return []byte("projects/" + projectID + "/anuncios/" + id)
}

func AnnouncementPrefix(projectID string) []byte {
	return []byte("projects/" + projectID + "/anuncios/")
}

func TaskKey(projectID, id string) []byte {
	return []byte("projects/" + projectID + "/tareas/" + id)
}

func TaskPrefix(projectID string) []byte {
	return []byte("projects/" + projectID + "/tareas/")
}

func CommentKey(projectID, taskID, id string) []byte {
	return []byte("projects/" + projectID + "/tareas/" + taskID + "/comentarios/" + id)
}

func CommentPrefix(projectID, taskID string) []byte {
	return []byte("projects/" + projectID + "/tareas/" + taskID + "/comentarios/")
}

// DirectChild reports whether key sits immediately under prefix.
// Nested records share ancestor prefixes (a task's comments live under
// the task prefix, a user's notifications under the users prefix), so
// listings of one kind must skip the deeper paths.
func DirectChild(key, prefix []byte) bool {
	rest, ok := strings.CutPrefix(string(key), string(prefix))

	if !ok {
		return false
	}

	return rest != "" && !strings.Contains(rest, "/")
}
