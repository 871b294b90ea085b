package sqlinline

const QDocumentInsert = `--sql b8977347-2ed8-4d21-a6bc-67d9b8928fba
insert into documents (id, owner_id, title, description, status)
values ($1, $2, $3, $4, 'draft');
`

const QDocumentByID = `--sql f86363c8-d745-4c4a-81e7-0958ce94df30
select id, owner_id, title, coalesce(description, ''), status, coalesce(artifact_key, ''), created_at, updated_at
from documents
where id = $1 and owner_id = $2;
`

const QDocumentListByOwner = `--sql e50f893e-f0a8-4510-b3ab-708733908695
select id, owner_id, title, coalesce(description, ''), status, coalesce(artifact_key, ''), created_at, updated_at
from documents
where owner_id = $1
order by created_at desc;
`

// QDocumentCompletedByID backs the public lead-capture surface: only
// finished documents are visible there, owner or not.
const QDocumentCompletedByID = `--sql 0acab4cb-382c-4da4-ae9f-5c514b5249ff
select id, owner_id, title, coalesce(description, ''), status, coalesce(artifact_key, ''), created_at, updated_at
from documents
where id = $1 and status = 'completed';
`

// QDocumentClaimGenerating is the duplicate-generation guard: the compare
// and swap flips the record into 'generating' only when no other job holds
// it. Zero rows affected means a concurrent claim won.
const QDocumentClaimGenerating = `--sql 136c11f6-98c9-420a-b764-c6c9a74a017f
update documents
set status = 'generating', updated_at = now()
where id = $1 and owner_id = $2 and status <> 'generating'
returning id;
`

const QDocumentFinishGenerating = `--sql b238cb30-236d-40f7-af48-1fc81913b60e
update documents
set status = 'completed', artifact_key = $2, updated_at = now()
where id = $1 and status = 'generating';
`

// QDocumentRevertGenerating releases the claim after a failed job so the
// owner can retry.
const QDocumentRevertGenerating = `--sql 723aee90-fe6e-4cdf-883c-79ce8bd633e0
update documents
set status = 'in_progress', updated_at = now()
where id = $1 and status = 'generating';
`
