package sqlinline

const QStatsForOwner = `--sql 7fd3b7de-746f-409a-88a6-0edf0e5d63e7
select
  (select count(*) from documents where owner_id = $1) as total_documents,
  (select count(*) from documents where owner_id = $1 and status = 'completed') as active_documents,
  (select count(*) from downloads dl join documents d on d.id = dl.document_id where d.owner_id = $1) as total_downloads,
  (select count(*) from leads l join documents d on d.id = l.document_id where d.owner_id = $1) as leads_generated;
`
